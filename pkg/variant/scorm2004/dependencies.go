package scorm2004

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
)

// ValidateSet enforces the rules that span several elements of an interaction or an
// objective. It runs after the target item exists and before the leaf rule.
func ValidateSet(tree *cmi.Composite, path, value string) *domain.Error {
	segs := strings.Split(path, ".")
	if len(segs) < 4 || segs[0] != "cmi" {
		return nil
	}
	item := strings.Join(segs[:3], ".")
	switch segs[1] {
	case "objectives":
		if segs[3] == "id" {
			return immutableID(tree, path, value)
		}
		return requireSet(tree, item+".id", path)
	case "interactions":
		return validateInteraction(tree, item, segs[3:], path, value)
	}
	return nil
}

func validateInteraction(tree *cmi.Composite, item string, rest []string, path, value string) *domain.Error {
	if rest[0] == "id" {
		return nil
	}
	if err := requireSet(tree, item+".id", path); err != nil {
		return err
	}
	switch rest[0] {
	case "objectives":
		if len(rest) == 3 && rest[2] == "id" {
			return uniqueObjective(tree, item, rest[1], path, value)
		}
	case "correct_responses":
		if err := requireSet(tree, item+".type", path); err != nil {
			return err
		}
		kind := cmi.ValueAt(tree, item+".type")
		n, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil
		}
		if limit := PatternLimit(kind); n >= limit {
			return domain.NewError(domain.KeyGeneralSetFailure,
				fmt.Sprintf("%s interactions accept at most %d correct responses", kind, limit))
		}
		return CheckPattern(kind, value)
	case "learner_response":
		if err := requireSet(tree, item+".type", path); err != nil {
			return err
		}
		return CheckResponse(cmi.ValueAt(tree, item+".type"), value)
	}
	return nil
}

func requireSet(tree *cmi.Composite, dependency, path string) *domain.Error {
	if l, ok := cmi.LeafAt(tree, dependency); ok && l.Initialized() {
		return nil
	}
	return domain.NewError(domain.KeyDependencyNotEstablished, fmt.Sprintf("%s requires %s", path, dependency))
}

// immutableID rejects changing an objective id once it was set.
func immutableID(tree *cmi.Composite, path, value string) *domain.Error {
	l, ok := cmi.LeafAt(tree, path)
	if ok && l.Initialized() && l.Value() != value {
		return domain.NewError(domain.KeyGeneralSetFailure, "objective identifiers cannot be changed")
	}
	return nil
}

func uniqueObjective(tree *cmi.Composite, item, index, path, value string) *domain.Error {
	node, ok := cmi.Walk(tree, item+".objectives")
	if !ok {
		return nil
	}
	coll, ok := node.(*cmi.Collection)
	if !ok {
		return nil
	}
	for i, obj := range coll.Items() {
		if strconv.Itoa(i) == index {
			continue
		}
		if cmi.ValueAt(obj, "id") == value {
			return domain.NewError(domain.KeyGeneralSetFailure, fmt.Sprintf("%s duplicates objective %d", path, i))
		}
	}
	return nil
}
