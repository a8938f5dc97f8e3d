// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"runtime"
	runtimedebug "runtime/debug"

	"github.com/spf13/cobra"
)

// buildInfo holds what can be learned about the binary at runtime
type buildInfo struct {
	version  string
	revision string
	built    string
	modified bool
}

// readBuildInfo pulls version details out of the embedded module info
func readBuildInfo() buildInfo {
	out := buildInfo{version: "dev"}

	info, ok := runtimedebug.ReadBuildInfo()
	if !ok {
		return out
	}

	if info.Main.Version != "" {
		out.version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.revision = setting.Value
		case "vcs.time":
			out.built = setting.Value
		case "vcs.modified":
			out.modified = setting.Value == "true"
		}
	}
	return out
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := readBuildInfo()

			revision := info.revision
			if revision == "" {
				revision = "unknown"
			}
			if info.modified {
				revision += " (modified)"
			}

			fmt.Printf("🚀 csvpatch %s\n", info.version)
			fmt.Printf("Revision:  %s\n", revision)
			if info.built != "" {
				fmt.Printf("Built:     %s\n", info.built)
			}
			fmt.Printf("Go:        %s\n", runtime.Version())
			fmt.Printf("Platform:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
