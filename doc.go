// Package coursemate is the Composition Root for the CourseMate application.
//
// It connects the core business logic (Domain Layer) with the infrastructure
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// CourseMate is a personal study organizer for one student on one machine.
// It treats the whole collection of courses, tasks and notes as a single
// document that is read once and rewritten on every change. While the
// default implementation uses a JSON file on the local filesystem, the core
// is agnostic, and an S3-compatible backend ships in the box.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Atomic Persistence**: The data file is replaced atomically, never half-written.
//   - **Note Templates**: Seven study formats (Cornell, Frayer, Polya, ...) with fixed sections.
//   - **Reactive Reloads**: File watching surfaces external edits while the app runs.
//   - **Default Adapter (FS)**: Out-of-the-box support for a local JSON file plus scratchpad.
//   - **Extensible**: Designed to support other backends (S3, ...) via `core.Store`.
//
// Usage:
//
//	// Open the service with functional options
//	svc, err := coursemate.Open(ctx, "./data",
//		coursemate.WithLogger(logger),
//	)
//
//	// Add a course and a note
//	course, err := svc.AddCourse(ctx, coursemate.NewCourse{Name: "Biology"})
//	note, err := svc.AddNote(ctx, course.ID, coursemate.NewNote{
//		Title:   "Cell Structure",
//		Kind:    "Cornell",
//		Content: map[string]string{"Summary (Bottom)": "Membranes everywhere."},
//	})
package coursemate
