// Package groupplans implements shared event planning with participant
// rosters.
//
// # Overview
//
// A group plan is an event with a schedule, a location, a budget and a
// bounded participant roster. Users join and leave plans; a join is refused
// once the roster reaches the plan's capacity. Plans carry a lifecycle
// status (ACTIVE by default) and an optional cover image stored on disk.
//
// # Key Components
//
// Service defines the plan operations and SQLService implements them over
// the shared database handle. Handlers expose the service under /api/group-plans,
// including the filtered listings (by creator, active, upcoming, by
// location, with free capacity, by participant) and roster membership:
//
//	svc := groupplans.NewSQLService(db)
//	images, err := groupplans.NewFilesystemImageStore(cfg.UploadDir)
//	h := groupplans.NewHandlers(svc, images, logger)
//	h.RegisterRoutes(router)
//
// # Related Packages
//
//   - pkg/users: creators and participants are registered users
//   - pkg/api: mounts the routes and serves the uploaded images
package groupplans
