package ports

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Vet checks that every port in the pool can currently be bound on loopback.
// It exists to catch a stale pool before a topology is generated against it;
// it is advisory only, since nothing stops another process from grabbing a
// port between vetting and running the generated script.
func Vet(ctx context.Context, pool []int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(32)
	for _, port := range pool {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
			l, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("port %d is not bindable: %w", port, err)
			}
			return l.Close()
		})
	}
	return g.Wait()
}
