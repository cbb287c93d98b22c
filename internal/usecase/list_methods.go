package usecase

import (
	"context"

	"github.com/samber/lo"
)

// ListMethodsParams contains parameters for listing contract functions
type ListMethodsParams struct {
	ArtifactRef string
	// ReadOnly and Writable filter the result; both false lists everything
	ReadOnly bool
	Writable bool
}

// ListMethodsResult contains the functions of an artifact
type ListMethodsResult struct {
	ArtifactName string       `json:"artifact"`
	Methods      []MethodInfo `json:"methods"`
}

// ListMethods lists the callable functions of an artifact
type ListMethods struct {
	artifacts ArtifactLoader
}

// NewListMethods creates a new ListMethods use case
func NewListMethods(artifacts ArtifactLoader) *ListMethods {
	return &ListMethods{artifacts: artifacts}
}

// Run executes the list methods use case
func (uc *ListMethods) Run(ctx context.Context, params ListMethodsParams) (*ListMethodsResult, error) {
	artifact, err := uc.artifacts.Load(ctx, params.ArtifactRef)
	if err != nil {
		return nil, err
	}

	methods := newMethodTable(artifact.ABI).list()
	if params.ReadOnly != params.Writable {
		methods = lo.Filter(methods, func(m MethodInfo, _ int) bool { return m.ReadOnly() == params.ReadOnly })
	}

	return &ListMethodsResult{ArtifactName: artifact.Name, Methods: methods}, nil
}
