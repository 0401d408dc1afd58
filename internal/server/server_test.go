package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/image-slicer/internal/config"
)

func TestNew(t *testing.T) {
	s := New(nil)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.cfg == nil {
		t.Fatal("New(nil) did not fall back to the default config")
	}

	cfg := config.Default()
	cfg.Slicing.SliceHeight = 128
	if got := New(cfg).cfg.Slicing.SliceHeight; got != 128 {
		t.Errorf("config not kept: SliceHeight %d", got)
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(nil)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "init-1", Method: "initialize"})

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != "init-1" {
		t.Errorf("ID: got %v, want init-1", resp.ID)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "image-slicer" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := New(nil)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != 5 {
		t.Errorf("Expected 5 tools, got %d", len(toolsList))
	}
}

func TestHandleRequest_Routing(t *testing.T) {
	tests := []struct {
		method   string
		id       interface{}
		wantNil  bool
		wantCode int
	}{
		{"ping", "ping-1", false, 0},
		{"notifications/initialized", nil, true, 0},
		{"nonexistent/method", 7, false, -32601},
		{"resources/list", 8, false, -32601},
	}

	s := New(nil)
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: tt.id, Method: tt.method})
			if tt.wantNil {
				if resp != nil {
					t.Errorf("got %+v, want no response", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != tt.id {
				t.Errorf("ID: got %v, want %v", resp.ID, tt.id)
			}
			switch {
			case tt.wantCode == 0 && resp.Error != nil:
				t.Errorf("unexpected error: %+v", resp.Error)
			case tt.wantCode != 0 && (resp.Error == nil || resp.Error.Code != tt.wantCode):
				t.Errorf("error: got %+v, want code %d", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestErrorResponse_OmitsEmptyData(t *testing.T) {
	data, err := json.Marshal(New(nil).errorResponse(1, -32601, "Method not found: x", ""))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"data"`) {
		t.Errorf("empty data serialized: %s", data)
	}
}

func TestServe(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json at all`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"slice_auto_params","arguments":{"width":1024,"height":1024}}}`,
	}, "\n")

	var out bytes.Buffer
	if err := New(nil).Serve(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	type line struct {
		ID    *float64  `json:"id"`
		Error *MCPError `json:"error"`
	}
	var got []line
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp line
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", scanner.Text(), err)
		}
		got = append(got, resp)
	}

	if len(got) != 4 {
		t.Fatalf("responses: got %d, want 4", len(got))
	}
	// The garbage line is answered in place with a parse error and no id.
	if got[1].ID != nil || got[1].Error == nil || got[1].Error.Code != -32700 {
		t.Errorf("garbage line: got %+v, want -32700 with null id", got[1])
	}
	for i, want := range map[int]float64{0: 1, 2: 2, 3: 3} {
		if got[i].ID == nil || *got[i].ID != want {
			t.Errorf("response %d: got id %v, want %v", i, got[i].ID, want)
		}
		if got[i].Error != nil {
			t.Errorf("response %d: unexpected error %+v", i, got[i].Error)
		}
	}
}
