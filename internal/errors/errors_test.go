package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{name: "route not found", code: "R001", wantMsg: "Route not found", wantCat: CategoryRouting},
		{name: "hook rejected", code: "K001", wantMsg: "Navigation cancelled by before hook", wantCat: CategoryHook},
		{name: "history mode", code: "H001", wantMsg: "Unsupported history mode", wantCat: CategoryHistory},
		{name: "config", code: "C120", wantMsg: "Invalid configuration file", wantCat: CategoryConfig},
		{name: "unknown error code", code: "Z999", wantMsg: "Unknown error", wantCat: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, tt.wantCat, err.Category)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "routes.json")
	assert.Equal(t, `file "routes.json" not found`, err.Message)
	assert.Equal(t, CategoryCLI, err.Category)
	assert.Equal(t, `file "routes.json" not found`, err.Error())
}

func TestPathwayError_Error(t *testing.T) {
	assert.Equal(t, "R001: Route not found", New("R001").Error())
	assert.Equal(t, `R001: Route not found: no route named "x"`,
		New("R001").WithDetailf("no route named %q", "x").Error())
}

func TestPathwayError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := fmt.Errorf("outer: %w", New("R002").Wrap(sentinel))

	assert.True(t, stderrors.Is(err, sentinel))
	assert.Equal(t, "R002", CodeOf(err))
	assert.Equal(t, "", CodeOf(sentinel))
	assert.Equal(t, "", CodeOf(nil))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil, "H002"))

	pe := New("R003")
	assert.Same(t, pe, FromError(pe, "H002"))

	wrapped := FromError(stderrors.New("disk full"), "H002")
	assert.Equal(t, "H002", wrapped.Code)
	assert.EqualError(t, wrapped.Wrapped, "disk full")
}

func TestFormat(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	out := New("R001").
		WithDetail(`no route named "user"`).
		Wrap(stderrors.New("route not found")).
		Format()

	assert.Contains(t, out, "ERROR R001: Route not found")
	assert.Contains(t, out, `no route named "user"`)
	assert.Contains(t, out, "Cause: route not found")
	assert.Contains(t, out, "Hint: ")
	assert.Contains(t, out, "Learn more: "+docBase+"R001")
	assert.NotContains(t, out, "\033[")
}

func TestFormatJSON(t *testing.T) {
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(New("H001").WithDetail("mode=browser").FormatJSON()), &decoded))

	assert.Equal(t, "H001", decoded["code"])
	assert.Equal(t, "history", decoded["category"])
	assert.Equal(t, "mode=browser", decoded["detail"])
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	FprintJSON(&buf, fmt.Errorf("loading: %w", New("C121").WithDetail("pathway.json")))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "C121", decoded["code"])
	assert.Equal(t, "pathway.json", decoded["detail"])

	buf.Reset()
	FprintJSON(&buf, stderrors.New("disk full"))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "X142", decoded["code"])
	assert.Equal(t, "disk full", decoded["cause"])
	assert.Equal(t, "cli", decoded["category"])
}

func TestColorsOn(t *testing.T) {
	SetColors(true)
	assert.Contains(t, New("R001").Format(), "\033[")
}

func TestLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Warn("navigation failed", "error", New("R002").
		WithDetail("/missing").
		With(slog.String("path", "/missing")))

	line := buf.String()
	assert.Contains(t, line, "error.code=R002")
	assert.Contains(t, line, "error.detail=/missing")
	assert.Contains(t, line, "error.path=/missing")
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Nil(t, wrapText("", 10))
}

func TestGetAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	require.NotEmpty(t, codes)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}

	_, ok := GetTemplate("R001")
	assert.True(t, ok)
}

func TestFprint(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	var buf bytes.Buffer
	Fprint(&buf, fmt.Errorf("loading: %w", New("C121")))
	assert.Contains(t, buf.String(), "ERROR C121")

	buf.Reset()
	Fprint(&buf, stderrors.New("plain"))
	assert.Contains(t, buf.String(), "ERROR: plain")
}
