package grading

import "context"

// Fallback grades with primary and, when it fails, with secondary. onErr
// observes the primary failure and may be nil.
type Fallback struct {
	primary   Grader
	secondary Grader
	onErr     func(error)
}

func NewFallback(primary, secondary Grader, onErr func(error)) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, onErr: onErr}
}

func (f *Fallback) Grade(ctx context.Context, req Request) (Result, error) {
	if f.primary != nil {
		res, err := f.primary.Grade(ctx, req)
		if err == nil {
			return res, nil
		}
		if f.onErr != nil {
			f.onErr(err)
		}
	}
	return f.secondary.Grade(ctx, req)
}
