package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := "# decoder limits\n" +
		"proto-max-bulk-len 1mb\n" +
		"proto-max-multibulk-len 64k\n" +
		"proto-max-nesting 8\n" +
		"proto-null-bulk yes\n" +
		"loglevel debug"
	p, err := parse(strings.NewReader(src))
	if err != nil {
		t.Error(err)
		return
	}
	if p.MaxBulkLen != 1024*1024 {
		t.Errorf("size parse failed: %d", p.MaxBulkLen)
	}
	if p.MaxMultiBulkLen != 64000 {
		t.Errorf("size parse failed: %d", p.MaxMultiBulkLen)
	}
	if p.MaxNesting != 8 {
		t.Error("int parse failed")
	}
	if !p.NullBulk || p.LenientArrays {
		t.Error("bool parse failed")
	}
	if p.LogLevel != "debug" {
		t.Error("string parse failed")
	}
	if p.MaxInputLen != Default().MaxInputLen {
		t.Error("missing keys should keep defaults")
	}
}

func TestParseIllegalSize(t *testing.T) {
	srcs := []string{
		"proto-max-bulk-len lots\n",
		"proto-max-bulk-len 99999999999999gb\n",
		"proto-max-bulk-len 9223372036854775807k\n",
		"proto-max-bulk-len -1\n",
		"proto-max-nesting -5mb\n",
	}
	for _, src := range srcs {
		if _, err := parse(strings.NewReader(src)); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"0":                   0,
		"512mb":               512 * 1024 * 1024,
		"64k":                 64000,
		"1GB":                 1024 * 1024 * 1024,
		"8589934591gb":        8589934591 * 1024 * 1024 * 1024,
		"9223372036854775807": 9223372036854775807,
	}
	for src, expected := range cases {
		n, err := parseSize(src)
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		if n != expected {
			t.Errorf("%q: expected %d, actually %d", src, expected, n)
		}
	}
}

func TestParserOptions(t *testing.T) {
	p := Default()
	p.NullBulk = true
	p.LenientArrays = true
	p.MaxNesting = 3
	opts := p.ParserOptions()
	if !opts.AllowNullBulk || !opts.LenientArrays || opts.MaxDepth != 3 {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.MaxBulkLen != 512*1024*1024 || opts.MaxArrayLen != 1024*1024 {
		t.Errorf("unexpected default limits %+v", opts)
	}
}

func TestSetupConfig(t *testing.T) {
	dir := t.TempDir()
	confFile := filepath.Join(dir, "resp.conf")
	if err := os.WriteFile(confFile, []byte("proto-lenient-arrays yes\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SetupConfig(confFile); err != nil {
		t.Error(err)
		return
	}
	if !Properties.LenientArrays {
		t.Error("redis.conf format not applied")
	}

	yamlFile := filepath.Join(dir, "resp.yaml")
	src := "proto-max-bulk-len: 16\nproto-null-bulk: true\nlogdir: logs\n"
	if err := os.WriteFile(yamlFile, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SetupConfig(yamlFile); err != nil {
		t.Error(err)
		return
	}
	if Properties.MaxBulkLen != 16 || !Properties.NullBulk || Properties.LogDir != "logs" {
		t.Errorf("yaml format not applied: %+v", Properties)
	}
	if Properties.MaxNesting != Default().MaxNesting {
		t.Error("missing yaml keys should keep defaults")
	}

	if err := SetupConfig(filepath.Join(dir, "missing.conf")); err == nil {
		t.Error("expected error for missing file")
	}
	Properties = Default()
}
