package scenario

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"

	"github.com/wfunc/turnsim/chess"
	"github.com/wfunc/turnsim/coupon"
	"github.com/wfunc/turnsim/delivery"
	"github.com/wfunc/turnsim/payment"
	"github.com/wfunc/turnsim/playlist"
	"github.com/wfunc/turnsim/splitwise"
)

// racers is how many goroutines ask for each shared instance at once.
const racers = 64

var shared = []struct {
	name string
	get  func() any
}{
	{"splitwise", func() any { return splitwise.Instance() }},
	{"coupon manager", func() any { return coupon.Instance() }},
	{"payment factory", func() any { return payment.DefaultFactory() }},
	{"payment service", func() any { return payment.DefaultService() }},
	{"payment controller", func() any { return payment.DefaultController() }},
	{"delivery registry", func() any { return delivery.DefaultRegistry() }},
	{"playlist manager", func() any { return playlist.DefaultManager() }},
	{"music player", func() any { return playlist.Default() }},
	{"chess lobby", func() any { return chess.DefaultLobby() }},
}

// Singletons races a pool of goroutines against every process-wide
// instance and checks each one was built exactly once.
func Singletons(ctx context.Context, env Env) error {
	pool := pond.NewPool(racers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	for _, s := range shared {
		seen := make([]any, racers)
		group := pool.NewGroup()
		for i := range seen {
			group.Submit(func() {
				seen[i] = s.get()
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}

		distinct := make(map[any]struct{}, 1)
		for _, v := range seen {
			distinct[v] = struct{}{}
		}
		if len(distinct) != 1 {
			return fmt.Errorf("%s: %d instances across %d goroutines", s.name, len(distinct), racers)
		}
		env.Out.Report("%s: one instance across %d goroutines", s.name, racers)
	}
	return nil
}
