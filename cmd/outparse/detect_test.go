package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    string
		wantErr bool
	}{
		{
			name:    "cross gcc",
			cmdline: "arm-none-eabi-g++ -c main.cpp -o main.o",
			want:    "gcc",
		},
		{
			name:    "clang",
			cmdline: "clang++ -fsyntax-only main.cpp",
			want:    "clang",
		},
		{
			name:    "clang-cl wins over clang",
			cmdline: "clang-cl.exe /W4 main.cpp",
			want:    "clang-cl",
		},
		{
			name:    "msvc",
			cmdline: `C:\tools\cl.exe /nologo main.cpp`,
			want:    "msvc",
		},
		{
			name:    "xcodebuild",
			cmdline: "xcodebuild -project app.xcodeproj build",
			want:    "xcodebuild",
		},
		{
			name:    "build driver maps to gcc",
			cmdline: "ninja -C build all",
			want:    "gcc",
		},
		{
			name:    "unrecognized",
			cmdline: "python setup.py build",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			detectCmd.SetOut(&out)

			err := detectCmd.RunE(detectCmd, strings.Fields(tt.cmdline))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tt.cmdline)
				}
				return
			}
			if err != nil {
				t.Fatalf("detect %q: %v", tt.cmdline, err)
			}
			if got := strings.TrimSpace(out.String()); got != tt.want {
				t.Errorf("detect %q = %q, want %q", tt.cmdline, got, tt.want)
			}
		})
	}
}
