//go:build !opencl

package main

import "errors"

type openCLFieldSolver struct{}

func newOpenCLFieldSolver(width, height int, _ bool) (*openCLFieldSolver, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (s *openCLFieldSolver) Step(field *echoField, walls []bool, wallsDirty bool, showWalls bool) ([]byte, error) {
	return nil, errors.New("OpenCL solver unavailable")
}

func (s *openCLFieldSolver) Close() {}

func (s *openCLFieldSolver) DeviceName() string { return "" }
