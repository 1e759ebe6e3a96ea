package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Index(ctx context.Context, req IndexRequest) (IndexResult, error) {
	load, err := s.LoadAll(ctx, req.Load)
	if err != nil {
		return IndexResult{}, err
	}
	result := IndexResult{Load: load}
	output := strings.TrimSpace(req.Output)
	if output == "" {
		return result, nil
	}
	summary := load.Db.Summary()
	summary.Repositories = load.Repositories
	summary.Warnings = load.Warnings
	if err := s.SummaryWriter.Write(output, summary); err != nil {
		return IndexResult{}, err
	}
	result.OutputPath = output
	return result, nil
}

func (s Service) Show(ctx context.Context, req ShowRequest) (ShowResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ShowResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is required")
	}
	load, err := s.LoadAll(ctx, req.Load)
	if err != nil {
		return ShowResult{}, err
	}
	preferred, ok := load.Db.PreferredVersion(name)
	if !ok {
		return ShowResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package not found: %s", name))
	}
	return ShowResult{
		Name:       name,
		Versions:   load.Db.Index.Lookup(name),
		Preference: load.Db.Preference(name),
		Preferred:  preferred,
		Warnings:   load.Warnings,
	}, nil
}
