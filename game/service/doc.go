// Package service provides the business logic layer for PicSlide.
//
// The service package implements:
//   - Multi-session puzzle management
//   - Configuration management and loading
//   - Click processing and scramble orchestration
//   - Session lifecycle management
//   - Move history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level puzzle
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ConfigManager manages puzzle configuration loading and
// validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the puzzle engine, providing session isolation, configuration management,
// and business logic orchestration. Each session maintains its own engine
// instance with an independent board.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide a tile
//	result, err := gameService.Click(ctx, sessionInfo.ID, 2, 3)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// boards. Multiple sessions can run concurrently with different
// configurations. Sessions track creation time, last access time, and move
// history for analytics and debugging.
package service
