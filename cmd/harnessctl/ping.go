package main

import (
	"time"

	"github.com/spf13/cobra"
)

type pingResult struct {
	Worker   string `json:"worker"`
	Target   string `json:"target"`
	Duration string `json:"duration"`
}

func (a *app) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Acquire the connection, ping it and release it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			start := time.Now()

			conn, err := a.db.Conn.Get(ctx)
			if err != nil {
				return err
			}
			if err := conn.Ping(ctx); err != nil {
				return err
			}

			return a.printPing(pingResult{
				Worker:   a.worker.ID(),
				Target:   conn.Config().String(),
				Duration: time.Since(start).Round(time.Millisecond).String(),
			})
		},
	}
}
