package conversion

// Outcome is the immutable per-item result of attempting a conversion
type Outcome struct {
	Succeeded    bool
	OutputPath   string
	ErrorMessage string
	Err          error
}

// Succeeded creates a successful Outcome for the given output path
func Succeeded(outputPath string) Outcome {
	return Outcome{Succeeded: true, OutputPath: outputPath}
}

// Failed creates a failed Outcome. The error text becomes the user-facing message.
func Failed(err error) Outcome {
	if err == nil {
		err = ErrOutputMissing
	}
	return Outcome{ErrorMessage: err.Error(), Err: err}
}
