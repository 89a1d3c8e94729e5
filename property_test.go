/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package busregistry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/suparena/busregistry/datastore"
	"github.com/suparena/busregistry/datastore/mock"
	"github.com/suparena/busregistry/storagemodels"
)

func TestProperty_DeferredReplayPreservesOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := mock.New()
		reg, err := New(store)
		require.NoError(t, err)

		names := rapid.SliceOfN(rapid.StringMatching(`[A-Z][a-z]{1,8}\.[A-Z][a-z]{1,8}`), 0, 30).Draw(t, "names")
		for _, name := range names {
			require.NoError(t, reg.Register(ctx, name))
		}
		require.Empty(t, store.Calls())

		address := rapid.StringMatching(`queue://[a-z]{1,12}`).Draw(t, "address")
		require.NoError(t, reg.Bind(ctx, address))

		var replayed []string
		for _, c := range store.Calls() {
			if c.Method != "Execute" {
				continue
			}
			require.Equal(t, address, c.Query.Params[datastore.ParamEndpointAddress])
			replayed = append(replayed, c.Query.Params[datastore.ParamMessageType])
		}
		require.Equal(t, len(names), len(replayed))
		for i := range names {
			require.Equal(t, names[i], replayed[i])
		}
		require.Empty(t, reg.Deferred())
	})
}

func TestProperty_LookupIsStableOnceCached(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := mock.New()

		seeded := rapid.SliceOfNDistinct(rapid.StringMatching(`queue://[a-z]{1,8}`), 0, 10, rapid.ID[string]).Draw(t, "seeded")
		records := make([]storagemodels.SubscriptionRecord, 0, len(seeded))
		for _, addr := range seeded {
			records = append(records, storagemodels.SubscriptionRecord{MessageType: "Order.Created", EndpointAddress: addr})
		}
		store.SetRecords(records...)

		reg, err := New(store)
		require.NoError(t, err)
		require.NoError(t, reg.Bind(ctx, "queue://self"))

		first, err := reg.Lookup(ctx, "Order.Created")
		require.NoError(t, err)
		require.Len(t, first, len(seeded))

		lookups := rapid.IntRange(1, 10).Draw(t, "lookups")
		for i := 0; i < lookups; i++ {
			if rapid.Bool().Draw(t, "register") {
				require.NoError(t, reg.Register(ctx, "Order.Created"))
			}
			again, err := reg.Lookup(ctx, "Order.Created")
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
		require.Equal(t, 1, store.CallCount("QueryRows"))
	})
}
