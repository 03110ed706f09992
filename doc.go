/*
Package scorm is a runtime engine for e-learning content speaking SCORM 1.2, SCORM 2004 or AICC.

Content (a SCO) drives a Session through a small set of operations: Initialize, GetValue,
SetValue, Commit and Terminate. The session gates each call on its lifecycle state, resolves
dotted element paths such as "cmi.core.score.raw" into a data model tree, validates every
write before storing it, and records the outcome in a last-error register that content reads
back with GetLastError, GetErrorString and GetDiagnostic.

# Concept

The engine is generic. Everything standard-specific (the data model schema, the error codes,
collection item builders, cross-field checks and termination rules) is supplied by a
ports.Variant. The variant packages under pkg/variant provide SCORM 1.2, AICC and SCORM 2004,
each with a facade exposing the standard's own API names.

# Usage

	sess, err := scorm.New(scorm12.New(),
		scorm.WithSettings(scorm.Settings{
			Autocommit:           true,
			AutocommitIntervalMs: 10000,
			CommitDestination:    "https://lms.example.com/commit",
			CommitPayloadFormat:  "json",
		}),
		scorm.WithTransport(transport.NewHTTP()),
	)
	if err != nil {
		log.Fatal(err)
	}

	api := scorm12.NewAPI(sess)
	api.LMSInitialize("")
	api.LMSSetValue("cmi.core.score.raw", "80")
	api.LMSFinish("")

# Listeners

Listeners observe operations synchronously:

	sess.On("SetValue.cmi.core.score.raw", func(element, value string) {
		log.Printf("%s = %s", element, value)
	})

Commits are sent through a ports.Transport. Without a commit destination the session renders
the payload and keeps it available through LastPayload.
*/
package scorm
