package core

// lanes.go splits product groups into lanes that can run concurrently.
//
// Two groups land in the same lane when they share any product or variant
// identifier from the file, or when a read-only lookup matches them to the
// same stored record. A lane runs in file order, so every record is written
// in the order a sequential run would write it.

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// sequentialLane returns the single lane [0, n).
func sequentialLane(n int) []int {
	lane := make([]int, n)
	for i := range lane {
		lane[i] = i
	}
	return lane
}

// planLanes groups indexes by shared identity. Lanes are ordered by their
// first group.
func (rc *Reconciler) planLanes(ctx context.Context, groups []ProductGroup) ([][]int, error) {
	keys, err := rc.laneKeys(ctx, groups)
	if err != nil {
		return nil, err
	}

	uf := newUnionFind(len(groups))
	owner := make(map[string]int)
	for i, groupKeys := range keys {
		for _, k := range groupKeys {
			if first, ok := owner[k]; ok {
				uf.union(first, i)
				continue
			}
			owner[k] = i
		}
	}

	// A root is the smallest index in its set, so roots are collected in
	// file order and each lane is appended in file order.
	byRoot := make(map[int][]int)
	var roots []int
	for i := range groups {
		root := uf.find(i)
		if _, ok := byRoot[root]; !ok {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], i)
	}

	lanes := make([][]int, len(roots))
	for i, root := range roots {
		lanes[i] = byRoot[root]
	}
	return lanes, nil
}

// laneKeys returns, per group, the file identifiers it carries and the ids
// of stored records any of them currently match.
func (rc *Reconciler) laneKeys(ctx context.Context, groups []ProductGroup) ([][]string, error) {
	keys := make([][]string, len(groups))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(rc.workers)

	for i, g := range groups {
		eg.Go(func() error {
			groupKeys, err := rc.groupKeys(egCtx, g)
			if err != nil {
				return fmt.Errorf("group at line %d: %w", g.Product.Line, err)
			}
			keys[i] = groupKeys
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (rc *Reconciler) groupKeys(ctx context.Context, g ProductGroup) ([]string, error) {
	var keys []string

	product := g.Product
	for _, key := range identityKeys(product.Get(ColBarcode), product.Get(ColSKU)) {
		keys = append(keys, "p:"+string(key.field)+":"+key.value)

		p, err := rc.store.FindProduct(ctx, key.field, key.value)
		switch {
		case err == nil:
			keys = append(keys, "p:id:"+p.ID.String())
		case !isNotFound(err):
			return nil, err
		}
	}

	for _, row := range g.Variants {
		for _, key := range identityKeys(row.Get(ColVariantBarcode), row.Get(ColVariantSKU)) {
			keys = append(keys, "v:"+string(key.field)+":"+key.value)

			v, err := rc.store.FindVariant(ctx, key.field, key.value)
			switch {
			case err == nil:
				keys = append(keys, "v:id:"+v.ID.String())
			case !isNotFound(err):
				return nil, err
			}
		}
	}

	return keys, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// unionFind is a disjoint-set forest over group indexes.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	return &unionFind{parent: sequentialLane(n)}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

// union keeps the smaller index as root.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
