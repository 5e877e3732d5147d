// Copyright © 2016 Sidharth Kshatriya
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

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/adapter"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/adapterlog"
)

// stdioConn adapts stdin/stdout into the single io.ReadWriter Server
// wants, the way a DAP adapter is normally hosted by its IDE frontend.
type stdioConn struct{}

func (stdioConn) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConn) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a single DAP debug session over stdin/stdout",
	Long: `serve speaks the Debug Adapter Protocol on stdin/stdout and GDB's
machine interface on a gdb subprocess it launches on the first launch or
attach request. It is meant to be spawned by an IDE, not run interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		adapterlog.VerboseFlag = viper.GetBool("verbose")
		if err := adapterlog.Init(viper.GetString("log-file")); err != nil {
			adapterlog.FatalIf(err)
		}

		server := adapter.NewServer(stdioConn{})
		if err := server.Serve(); err != nil {
			adapterlog.FatalIf(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
