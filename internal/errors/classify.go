package errors

import (
	stderrors "errors"
	"io/fs"

	"github.com/vango-dev/pageroute/pkg/manifest"
	"github.com/vango-dev/pageroute/pkg/router"
	"github.com/vango-dev/pageroute/pkg/source"
)

// Classify converts err into a coded *Error. file names the manifest the
// error relates to and may be empty. Errors that are already *Error are
// returned unchanged; unrecognized errors get the fallback code.
func Classify(err error, file, fallback string) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if stderrors.As(err, &ce) {
		return ce
	}

	var (
		compileErr *router.PatternCompileError
		patternErr *router.PatternError
		pathErr    *router.PathError
		loadErr    *router.LoadError
		entryErr   *manifest.EntryError
	)
	switch {
	case stderrors.As(err, &compileErr):
		return New("R001").Wrap(err).WithLocation(file, compileErr.Index)
	case stderrors.As(err, &patternErr):
		return New("R004").Wrap(err).WithLocation(file, patternErr.Index)
	case stderrors.Is(err, router.ErrNoPatterns):
		return withFile(New("R006").Wrap(err), file)
	case stderrors.Is(err, router.ErrNoMatch):
		return New("R002").Wrap(err)
	case stderrors.As(err, &pathErr):
		return New("R005").Wrap(err)
	case stderrors.Is(err, source.ErrNotFound):
		return New("S001").Wrap(err)
	case stderrors.As(err, &loadErr):
		return New("R003").Wrap(err)
	case stderrors.As(err, &entryErr):
		return New("M003").Wrap(err).WithLocation(file, entryErr.Index)
	case stderrors.Is(err, manifest.ErrUnsupportedFormat):
		return withFile(New("M004").Wrap(err), file)
	case stderrors.Is(err, fs.ErrNotExist):
		return withFile(New("M001").Wrap(err), file)
	}
	return New(fallback).Wrap(err)
}

func withFile(e *Error, file string) *Error {
	if file != "" {
		e.WithLocation(file, -1)
	}
	return e
}
