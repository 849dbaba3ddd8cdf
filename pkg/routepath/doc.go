// Package routepath compiles route patterns and normalizes navigation paths.
//
// A pattern is a slash-separated template made of static segments, named
// parameters and an optional trailing catch-all:
//
//	/users            static
//	/users/:id        parameter, matches any single non-empty segment
//	/users/:id:int    typed parameter (int, uint, uuid, string)
//	/files/*path      catch-all, matches one or more trailing segments
//
// Patterns are compiled once with Compile; malformed patterns are rejected
// there, never at match time:
//
//	p, err := routepath.Compile("/users/:id")
//	values, ok := p.Match("users/42") // ["42"], true
//	p.Keys()                          // ["id"]
//
// Leading and trailing slashes are insignificant on both sides, so a cleaned,
// pattern-relative path ("users/42") matches the same way as "/users/42/".
package routepath
