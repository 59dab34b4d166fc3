// stub_server stands in for the lint-mcp server in integration tests.
// It answers initialize and tools/list, echoes tools/call params and exits
// with STUB_EXIT_CODE once stdin closes. SIGTERM and SIGINT are reported on
// stderr and end the process with 128+signo.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
)

type message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "stub: received %s\n", sig)
		code := 130
		if sig == syscall.SIGTERM {
			code = 143
		}
		os.Exit(code)
	}()

	if len(os.Args) > 1 {
		fmt.Fprintf(os.Stderr, "stub: unexpected arguments %q\n", os.Args[1:])
		os.Exit(64)
	}
	fmt.Fprintln(os.Stderr, "stub: ready")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			fmt.Fprintf(os.Stderr, "stub: invalid JSON: %v\n", err)
			continue
		}

		resp := message{JSONRPC: "2.0", ID: msg.ID}
		switch msg.Method {
		case "initialize":
			resp.Result = json.RawMessage(`{"protocolVersion":"2024-11-05","serverInfo":{"name":"lint-mcp","version":"0.0.0"},"capabilities":{"tools":{}}}`)
		case "notifications/initialized":
			continue
		case "tools/list":
			resp.Result = json.RawMessage(`{"tools":[{"name":"lint","description":"Lint a file","inputSchema":{"type":"object"}}]}`)
		case "tools/call":
			resp.Result = json.RawMessage(fmt.Sprintf(`{"content":[{"type":"text","text":%s}]}`, strconv.Quote(string(msg.Params))))
		default:
			resp.Error = json.RawMessage(fmt.Sprintf(`{"code":-32601,"message":%s}`, strconv.Quote("method not found: "+msg.Method)))
		}

		data, _ := json.Marshal(resp)
		os.Stdout.Write(append(data, '\n'))
	}

	code, _ := strconv.Atoi(os.Getenv("STUB_EXIT_CODE"))
	os.Exit(code)
}
