// Package spira provides a typed client for the Spira REST API.
//
// Spira returns loosely typed JSON: fields come and go between versions,
// dates arrive in several encodings, enumerations are bare integers and a
// missing resource is reported as a 200 response whose body is a quoted
// message. This package hides all of that behind immutable entity values.
//
// # Architecture
//
//   - Registry: API version, endpoint paths and not-found sentinels
//   - Object: field access over one decoded JSON object
//   - DecodeDate: the "/Date(ms-hhmm)/", bare epoch and RFC 3339 forms
//   - Project, Requirement: entities decoded fail-fast from JSON objects
//   - Client: count-then-page listing and by-id or by-name lookups
//   - Transport: the HTTP boundary, replaceable for tests
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := spira.NewClient(
//		"https://demo.spiraservice.net/acme",
//		spira.V5_0,
//		"fredbloggs",
//		"{7A05FD06-83C3-4436-B37F-51BCF0060483}",
//		logger,
//		spira.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	project, err := client.ProjectByName(ctx, "Library Information System")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if project == nil {
//		log.Fatal("no such project")
//	}
//	requirements, err := project.Requirements(ctx)
//
// # Error Handling
//
// Absence is not an error: by-id and by-name lookups return (nil, nil).
// Every decode failure matches ErrDecode:
//
//	if errors.Is(err, spira.ErrDecode) {
//		// the service sent something this package cannot read
//	}
//
// Transport failures are *TransportError and non-success statuses are
// *APIError.
package spira
