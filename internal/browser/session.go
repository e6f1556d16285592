package browser

import "errors"

// ErrElementNotFound is returned by Element when a selector matches nothing.
var ErrElementNotFound = errors.New("element not found")

// Key is a symbolic control key deliverable to a focused element.
type Key string

const (
	KeyEnter     Key = "Enter"
	KeyTab       Key = "Tab"
	KeyEscape    Key = "Escape"
	KeyBackspace Key = "Backspace"
)

// Session is a live handle to a controllable browser instance. One session
// is owned by exactly one runner at a time.
type Session interface {
	// Navigate loads the URL and waits for the page load event.
	Navigate(url string) error
	// Element locates a single element by CSS selector. It does not wait:
	// zero matches yields ErrElementNotFound.
	Element(selector string) (Element, error)
	// Elements locates all elements matching the CSS selector, in document
	// order. Zero matches yields an empty slice, not an error.
	Elements(selector string) ([]Element, error)
	// ActiveElement returns the element holding input focus, falling back
	// to the document body when nothing is focused.
	ActiveElement() (Element, error)
	// Eval runs a JavaScript function in the page with the given arguments.
	Eval(js string, args ...any) error
	// Quit releases the browser.
	Quit() error
}

// Element is a handle to a single DOM element within a session.
type Element interface {
	Click() error
	// Clear removes the element's current content.
	Clear() error
	// Input inserts literal text into the element.
	Input(text string) error
	// Press sends a symbolic control key to the element.
	Press(key Key) error
	// Text returns the element's rendered text content.
	Text() (string, error)
	// Attributes returns the element's attribute map.
	Attributes() (map[string]string, error)
}
