// Package mcp exposes PicSlide to MCP clients as a thin proxy over the REST
// API.
//
// The Client holds no game state of its own. Every tool call translates into
// an HTTP request against the running server, so MCP sessions and browser
// sessions observe the same boards and the REST layer stays the single
// authority for game rules.
//
// Tools cover the full play loop (create_session, board_state, click_tile,
// scramble, new_round, move_history) plus discovery helpers (list_configs,
// game_instructions, describe_tile). Responses are formatted as plain text
// with an ASCII rendering of the board, tile numbers 1-based and the gap
// drawn as dots, so a language model can read the position directly.
package mcp
