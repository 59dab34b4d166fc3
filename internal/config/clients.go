package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// ServerEntry is one mcpServers entry in an MCP client config.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// ClientInfo describes a known MCP client configuration file.
type ClientInfo struct {
	ID      string                  // Short identifier used on the command line (e.g. "cursor")
	Name    string                  // Human-readable client name (e.g. "Claude Code")
	Path    string                  // Absolute path to config file
	Servers map[string]*ServerEntry // Parsed MCP server definitions, nil if the file is absent
}

// KnownClients lists the client config locations for the real home directory.
func KnownClients() []ClientInfo {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return KnownClientsIn(home)
}

// KnownClientsIn lists client config locations relative to home, whether
// or not the files exist.
func KnownClientsIn(home string) []ClientInfo {
	clients := []ClientInfo{
		{ID: "claude-code", Name: "Claude Code", Path: filepath.Join(home, ".claude.json")},
		{ID: "cursor", Name: "Cursor", Path: filepath.Join(home, ".cursor", "mcp.json")},
	}
	if runtime.GOOS == "darwin" {
		clients = append(clients, ClientInfo{
			ID:   "claude-desktop",
			Name: "Claude Desktop",
			Path: filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"),
		})
	}
	return clients
}

// DetectClients detects client configs in the real home directory.
func DetectClients() []ClientInfo {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return DetectClientsIn(home)
}

// DetectClientsIn returns the clients under home whose config file parses
// and declares at least one server.
func DetectClientsIn(home string) []ClientInfo {
	var found []ClientInfo
	for _, c := range KnownClientsIn(home) {
		servers, err := parseClientConfig(c.Path)
		if err != nil || len(servers) == 0 {
			continue
		}
		c.Servers = servers
		found = append(found, c)
	}
	return found
}

// FindClient looks up a known client by ID.
func FindClient(clients []ClientInfo, id string) (ClientInfo, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return ClientInfo{}, false
}

func parseClientConfig(path string) (map[string]*ServerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	serversJSON, ok := raw["mcpServers"]
	if !ok {
		return nil, nil
	}

	var servers map[string]*ServerEntry
	if err := json.Unmarshal(serversJSON, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// Registrations returns the names of servers in c that launch command,
// compared by base name so both absolute and PATH-relative entries match.
func (c ClientInfo) Registrations(command string) []string {
	want := strings.TrimSuffix(filepath.Base(command), ".exe")
	var names []string
	for name, entry := range c.Servers {
		if entry == nil {
			continue
		}
		if strings.TrimSuffix(filepath.Base(entry.Command), ".exe") == want {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RegisterServer adds or replaces the serverName entry in the client config
// at path so that it runs command without arguments. Other fields in the
// file are preserved; a missing file is created.
func RegisterServer(path, serverName, command string) error {
	raw := make(map[string]json.RawMessage)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse client config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("read client config: %w", err)
	}

	// A file holding JSON null decodes to a nil map.
	if raw == nil {
		raw = make(map[string]json.RawMessage)
	}

	servers := make(map[string]json.RawMessage)
	if serversJSON, ok := raw["mcpServers"]; ok {
		if err := json.Unmarshal(serversJSON, &servers); err != nil {
			return fmt.Errorf("parse mcpServers: %w", err)
		}
	}
	if servers == nil {
		servers = make(map[string]json.RawMessage)
	}

	entry, err := json.Marshal(&ServerEntry{Command: command})
	if err != nil {
		return fmt.Errorf("marshal server entry: %w", err)
	}
	servers[serverName] = entry

	serversJSON, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("marshal mcpServers: %w", err)
	}
	raw["mcpServers"] = serversJSON

	output, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	output = append(output, '\n')

	return AtomicWriteFile(path, output, 0600)
}
