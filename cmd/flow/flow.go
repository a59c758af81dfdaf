package main

import (
	"encoding/json"
	"fmt"
	"os"

	// Packages
	httpclient "github.com/mutablelogic/go-flow/pkg/httpclient"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type FlowCommands struct {
	Flows  ListFlowsCommand  `cmd:"" group:"FLOWS" help:"List flows"`
	Flow   GetFlowCommand    `cmd:"" group:"FLOWS" help:"Get a flow descriptor"`
	Invoke InvokeFlowCommand `cmd:"" group:"FLOWS" help:"Run a flow with a string input"`
	Models ListModelsCommand `cmd:"" group:"FLOWS" help:"List models"`
	Runs   ListRunsCommand   `cmd:"" group:"RUNS" help:"List recorded flow runs"`
	Run    GetRunCommand     `cmd:"" group:"RUNS" help:"Get a recorded flow run"`
}

type ListFlowsCommand struct{}

type GetFlowCommand struct {
	Name string `arg:"" help:"Flow name"`
}

type InvokeFlowCommand struct {
	Name  string `arg:"" help:"Flow name"`
	Input string `arg:"" help:"Flow input"`
}

type ListModelsCommand struct{}

type ListRunsCommand struct {
	Flow   string `name:"flow" help:"Filter runs by flow name"`
	Offset int    `name:"offset" help:"Number of runs to skip"`
	Limit  int    `name:"limit" help:"Maximum number of runs to return"`
}

type GetRunCommand struct {
	Id string `arg:"" help:"Run identifier"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *ListFlowsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	resp, err := c.ListFlows(ctx.ctx)
	if err != nil {
		return err
	}
	return prettyJSON(resp)
}

func (cmd *GetFlowCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	resp, err := c.GetFlow(ctx.ctx, cmd.Name)
	if err != nil {
		return err
	}
	return prettyJSON(resp)
}

func (cmd *InvokeFlowCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	result, err := c.RunFlow(ctx.ctx, cmd.Name, cmd.Input)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

func (cmd *ListModelsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	resp, err := c.ListModels(ctx.ctx)
	if err != nil {
		return err
	}
	return prettyJSON(resp)
}

func (cmd *ListRunsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	resp, err := c.ListRuns(ctx.ctx,
		httpclient.WithFlow(cmd.Flow),
		httpclient.WithOffset(cmd.Offset),
		httpclient.WithLimit(cmd.Limit),
	)
	if err != nil {
		return err
	}
	return prettyJSON(resp)
}

func (cmd *GetRunCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	resp, err := c.GetRun(ctx.ctx, cmd.Id)
	if err != nil {
		return err
	}
	return prettyJSON(resp)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func prettyJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
