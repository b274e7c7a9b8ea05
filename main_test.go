package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDemoCommandRendersCornellBoxToPNG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "render.png")

	var stdout bytes.Buffer

	// demo takes no --config, so override via the env layer (spec 4.I
	// precedence: defaults < document < env < flags).
	t.Setenv("PHOTONMAP_PHOTON_MAP_EMISSIONS", "2000")
	t.Setenv("PHOTONMAP_INTEGRATOR_NUM_THREADS", "2")
	t.Setenv("PHOTONMAP_INTEGRATOR_MAX_RAY_DEPTH", "6")
	t.Setenv("PHOTONMAP_RENDER_WIDTH", "8")
	t.Setenv("PHOTONMAP_RENDER_HEIGHT", "8")
	t.Setenv("PHOTONMAP_RENDER_OUTPUT", out)

	root := newRootCmd()
	root.SetArgs([]string{"demo", "cornell"})
	root.SetOut(&stdout)

	if err := root.Execute(); err != nil {
		t.Fatalf("demo cornell failed: %v", err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output file at %s: %v", out, err)
	}
}

func TestDemoCommandRejectsUnknownScene(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"demo", "not-a-scene"})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for an unknown demo scene")
	}
}
