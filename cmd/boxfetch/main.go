// Command boxfetch keeps a sing-box configuration in sync with its subscription.
package main

import "github.com/bolasblack/boxfetch/internal/cli"

func main() {
	cli.Execute()
}
