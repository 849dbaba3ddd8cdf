package remote

// FrameType identifies a protocol frame.
type FrameType string

// Server to client.
const (
	FramePush        FrameType = "push"
	FrameReplace     FrameType = "replace"
	FrameGo          FrameType = "go"
	FrameHash        FrameType = "hash"
	FrameReplaceHash FrameType = "replaceHash"
)

// Client to server.
const (
	FrameHello      FrameType = "hello"
	FramePopState   FrameType = "popstate"
	FrameHashChange FrameType = "hashchange"
)

// Frame is the single wire message shape. Unused fields are omitted.
type Frame struct {
	Type FrameType `json:"type"`

	// Key is the entry key for push, replace and popstate.
	Key string `json:"key,omitempty"`

	// Href is an origin-relative URL (hello, push, replace, popstate) or a
	// fragment without "#" (hash, replaceHash).
	Href string `json:"href,omitempty"`

	// Delta is the history.go argument.
	Delta int `json:"delta,omitempty"`

	// OldURL and NewURL carry hashchange URLs, origin-relative.
	OldURL string `json:"oldURL,omitempty"`
	NewURL string `json:"newURL,omitempty"`

	// History reports pushState support in hello.
	History bool `json:"history,omitempty"`
}
