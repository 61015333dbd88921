package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcserver "github.com/stonesign/plaque-cms/internal/server/grpc"
)

func newCallCmd() *cobra.Command {
	var (
		addr      string
		token     string
		anonymous bool
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "call <procedure> [json|-]",
		Short: "Invoke a procedure over gRPC and print its result",
		Example: `  plaque-cms call content.getByPage '{"pageId":"home"}'
  plaque-cms call gallery.create - < item.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			input, err := readInput(raw, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if token == "" && !anonymous {
				// A missing token file means an anonymous call.
				token, _ = loadToken()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return err
			}
			defer cc.Close()
			return runCall(ctx, cc, args[0], token, input, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:9090", "gRPC server address")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (defaults to the saved token)")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "call without any token")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "call timeout")
	return cmd
}

func runCall(ctx context.Context, cc grpc.ClientConnInterface, name, token string, input json.RawMessage, w io.Writer) error {
	out, err := grpcserver.Call(ctx, cc, name, token, input)
	if err != nil {
		return err
	}
	return printJSON(w, out)
}

// readInput accepts inline JSON, "-" for stdin, or nothing.
func readInput(arg string, stdin io.Reader) (json.RawMessage, error) {
	var b []byte
	switch arg {
	case "":
		return nil, nil
	case "-":
		var err error
		if b, err = io.ReadAll(stdin); err != nil {
			return nil, err
		}
	default:
		b = []byte(arg)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, nil
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("input is not valid JSON: %s", strings.TrimSpace(string(b)))
	}
	return json.RawMessage(b), nil
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
