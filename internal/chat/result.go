package chat

// Result is the outcome of a provider call: either generated text or the
// failure that prevented it.
type Result struct {
	text string
	err  error
}

func Ok(text string) Result { return Result{text: text} }

func Failed(err error) Result { return Result{err: err} }

// Text returns the generated reply and true, or "" and false on failure.
func (r Result) Text() (string, bool) {
	if r.err != nil {
		return "", false
	}
	return r.text, true
}

func (r Result) Err() error { return r.err }
