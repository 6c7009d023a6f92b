package flight

import "fmt"

// InputShapeError is returned by Normalize when the input table is
// missing a required column entirely (not merely blank in some rows).
// It is the one normalizer failure mode that aborts the whole run
// rather than dropping or patching a single flight.
type InputShapeError struct {
	Missing []string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("flight: missing required column(s): %v", e.Missing)
}
