package server

import (
	"testing"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_crop",
		"spot_detect",
		"spot_bounds",
		"spot_pixels",
		"spot_intensity",
		"spot_measure_batch",
		"spot_crop",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// every required parameter must be described
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s has no schema", r)
				}
			}
		})
	}
}

func TestToolDefinitions_SpotParameters(t *testing.T) {
	spotTools := []string{"spot_bounds", "spot_pixels", "spot_intensity", "spot_crop"}
	want := []string{"path", "paths", "calibration", "intensity", "smooth", "id", "x", "y", "z", "radius", "roi"}

	for _, name := range spotTools {
		t.Run(name, func(t *testing.T) {
			tool := toolByName(t, name)
			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, p := range want {
				if _, ok := props[p]; !ok {
					t.Errorf("missing parameter %s", p)
				}
			}

			required := tool.InputSchema["required"].([]string)
			if len(required) != 2 || required[0] != "x" || required[1] != "y" {
				t.Errorf("required: got %v, want [x y]", required)
			}
		})
	}
}

func TestToolDefinitions_BatchSpotItems(t *testing.T) {
	tool := toolByName(t, "spot_measure_batch")
	props := tool.InputSchema["properties"].(map[string]interface{})

	spots, ok := props["spots"].(map[string]interface{})
	if !ok {
		t.Fatal("spots parameter missing")
	}
	items, ok := spots["items"].(map[string]interface{})
	if !ok {
		t.Fatal("spots.items should be a map")
	}
	itemProps, ok := items["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("spots.items.properties should be a map")
	}
	for _, p := range []string{"id", "x", "y", "radius", "roi"} {
		if _, ok := itemProps[p]; !ok {
			t.Errorf("spot item missing %s", p)
		}
	}
	if _, ok := props["x"]; ok {
		t.Error("batch tool should not take a top-level x")
	}
}

func TestToolDefinitions_IntensityEnum(t *testing.T) {
	tool := toolByName(t, "spot_intensity")
	props := tool.InputSchema["properties"].(map[string]interface{})
	intensity := props["intensity"].(map[string]interface{})

	enum, ok := intensity["enum"].([]string)
	if !ok {
		t.Fatal("intensity enum should be a string slice")
	}
	want := map[string]bool{"luma": true, "lightness": true, "red": true, "green": true, "blue": true}
	if len(enum) != len(want) {
		t.Errorf("enum: got %v", enum)
	}
	for _, e := range enum {
		if !want[e] {
			t.Errorf("unexpected enum value %s", e)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
