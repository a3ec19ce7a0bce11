// Command ucsctl applies playbooks of desired-state descriptors to Cisco UCS
// Manager.
//
//	ucsctl apply -f playbook.yaml
//	ucsctl dn --class ip-pool --scope root/HR --name DC03
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if kind := ucs.KindOf(err); kind != "" {
			fmt.Fprintf(os.Stderr, "error (%s): %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
