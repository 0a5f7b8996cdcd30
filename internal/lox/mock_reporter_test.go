package lox

// mockReporter records every error it's given instead of writing them
// anywhere, so tests can assert on exactly what was reported.
type mockReporter struct {
	errs          []error
	hadErr        bool
	hadRuntimeErr bool
}

func (r *mockReporter) Report(err error) {
	r.errs = append(r.errs, err)
	if _, ok := err.(*RuntimeError); ok {
		r.hadRuntimeErr = true
	} else {
		r.hadErr = true
	}
}

func (r *mockReporter) HadError() bool {
	return r.hadErr
}

func (r *mockReporter) HadRuntimeError() bool {
	return r.hadRuntimeErr
}

func (r *mockReporter) Reset() {
	r.hadErr = false
	r.hadRuntimeErr = false
}
