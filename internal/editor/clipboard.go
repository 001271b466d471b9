package editor

// Clipboard stores the text written by Copy and Cut and read by Paste.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// MemoryClipboard is a process-local clipboard. Session rooms share one per
// room so clients can paste what another client copied.
type MemoryClipboard struct {
	text string
}

func (c *MemoryClipboard) ReadAll() (string, error) { return c.text, nil }

func (c *MemoryClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}
