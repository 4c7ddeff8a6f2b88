// Package quizzes implements quiz management with nested questions.
//
// # Overview
//
// A quiz is a titled collection of multiple-choice questions owned by the
// user that created it. Questions are value objects that live and die with
// their quiz: updating a quiz replaces its whole question list, and deleting
// a quiz removes its questions with it.
//
// # Key Components
//
// Service defines the quiz operations and SQLService implements them over
// the shared database handle:
//
//	svc := quizzes.NewSQLService(db)
//	quiz, err := svc.Get(ctx, id)
//
// Handlers expose the service as a REST resource under /api/quizzes:
//
//	h := quizzes.NewHandlers(svc, logger)
//	h.RegisterRoutes(router)
//
// Write access is guarded by ownership: edits and deletes are rejected with
// 403 Forbidden when the requesting creator does not match the quiz creator.
//
// # Related Packages
//
//   - pkg/users: creators are registered users
//   - pkg/api: mounts the routes on the shared router
package quizzes
