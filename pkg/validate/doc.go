/*
Package validate is the validation engine of the data model.

A Rule is a pure predicate over a candidate string value. It returns nil to accept the
value, or a *domain.Error carrying the semantic key (type mismatch, out of range) that the
owning variant maps to its numeric code. Rules never mutate anything.

	score := validate.All(
		validate.Format(`^-?([0-9]{0,3})(\.[0-9]*)?$`),
		validate.Range(0, 100),
	)
	if err := score.Check("120"); err != nil {
		// err.Key == domain.KeyValueOutOfRange
	}
*/
package validate
