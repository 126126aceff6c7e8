package commands

import (
	"context"
	"fmt"
	"net"

	"github.com/bitrpc/bitrpc/internal/demo/echo"
	"github.com/bitrpc/bitrpc/pkg/config"
	"github.com/bitrpc/bitrpc/pkg/metrics"
	"github.com/bitrpc/bitrpc/pkg/rpc"
	"github.com/spf13/cobra"
)

var callAddress string

var callCmd = &cobra.Command{
	Use:   "call [message]",
	Short: "Call the Echo method on a running BitRPC server",
	Long: `Dial a running bitrpcd server and invoke Echo.Call with message, printing
the echoed reply and the server's receipt timestamp.

Examples:
  bitrpcd call "hello"
  bitrpcd call --address 127.0.0.1:9753 "hello"`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVar(&callAddress, "address", "", "server address to dial (default: client.remote_address from config)")
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	address := callAddress
	if address == "" {
		address = cfg.Client.RemoteAddress
	}
	if address == "" {
		address = cfg.Server.ListenAddress
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.ConnectTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", address, err)
	}
	defer func() { _ = conn.Close() }()

	client := rpc.NewClient(conn, uint32(cfg.Server.MaxFrameBytes))
	defer func() { _ = client.Close() }()
	client.SetMaxInFlight(cfg.Client.MaxInFlight)

	if cfg.Metrics.Enabled {
		if !metrics.IsEnabled() {
			metrics.InitRegistry()
		}
		client.SetMetrics(metrics.NewRPCMetrics())
	}

	echoSvc, err := echo.NewService()
	if err != nil {
		return fmt.Errorf("failed to build echo service: %w", err)
	}

	callCtx, callCancel := context.WithTimeout(context.Background(), cfg.Client.CallTimeoutDefault)
	defer callCancel()

	echoed, receivedAt, err := echoSvc.Call(callCtx, client, args[0])
	if err != nil {
		return fmt.Errorf("call failed: %w", err)
	}

	fmt.Printf("echoed: %s\n", echoed)
	fmt.Printf("received_at: %s\n", receivedAt.Format("2006-01-02T15:04:05.000Z07:00"))
	return nil
}
