// Package world hosts the poker-playing population as an ECS. It implements
// the economy interface the session manager settles against and the
// population interface the benchmark runner samples from, so the poker
// subsystem never needs to know how the surrounding ecosystem stores its
// entities.
package world

import (
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"fishtank/ai"
	"fishtank/benchmark"
	"fishtank/components"
	"fishtank/config"
	"fishtank/ledger"
	"fishtank/session"
	"fishtank/table"
	"fishtank/traits"
)

// World is the population of potential poker players.
type World struct {
	ecs    *ecs.World
	mapper *ecs.Map4[components.Identity, components.Purse, components.Genes, components.PlayStats]
	filter *ecs.Filter4[components.Identity, components.Purse, components.Genes, components.PlayStats]

	byID map[table.PlayerID]ecs.Entity
	rng  *rand.Rand
}

func New(seed int64) *World {
	w := ecs.NewWorld()
	return &World{
		ecs:    w,
		mapper: ecs.NewMap4[components.Identity, components.Purse, components.Genes, components.PlayStats](w),
		filter: ecs.NewFilter4[components.Identity, components.Purse, components.Genes, components.PlayStats](w),
		byID:   make(map[table.PlayerID]ecs.Entity),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Spawn adds one entity with a starting energy balance and aggression gene.
func (w *World) Spawn(id table.PlayerID, species traits.Species, energy int64, aggression float64) ecs.Entity {
	entity := w.mapper.NewEntity(
		&components.Identity{ID: string(id), Species: species},
		&components.Purse{Energy: energy},
		&components.Genes{Aggression: aggression},
		&components.PlayStats{Elo: config.Cfg().Benchmark.InitialElo},
	)
	w.byID[id] = entity
	return entity
}

// Kill removes an entity from the population. Any hand it sits in must be
// voided by the session manager; the caller is expected to pair this with
// Manager.RemovePlayer.
func (w *World) Kill(id table.PlayerID) {
	entity, ok := w.byID[id]
	if !ok {
		return
	}
	w.mapper.Remove(entity)
	delete(w.byID, id)
}

// Count is the number of live entities.
func (w *World) Count() int { return len(w.byID) }

// IDs lists the live entity ids in stable order.
func (w *World) IDs() []table.PlayerID {
	ids := make([]table.PlayerID, 0, len(w.byID))
	for id := range w.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Balance implements session.Economy.
func (w *World) Balance(id table.PlayerID) (int64, bool) {
	entity, ok := w.byID[id]
	if !ok {
		return 0, false
	}
	_, purse, _, _ := w.mapper.Get(entity)
	return purse.Energy, true
}

// Credit implements session.Economy. Deltas come exclusively from ledger
// settlements.
func (w *World) Credit(id table.PlayerID, delta int64) {
	entity, ok := w.byID[id]
	if !ok {
		return
	}
	_, purse, _, stats := w.mapper.Get(entity)
	purse.Energy += delta
	stats.NetEnergy += delta
}

// RecordHand folds a settled outcome into the participants' play stats.
// Voided hands are ignored.
func (w *World) RecordHand(out *ledger.Outcome) {
	if out == nil || out.Voided {
		return
	}
	for id := range out.Deltas {
		entity, ok := w.byID[id]
		if !ok {
			continue
		}
		_, _, _, stats := w.mapper.Get(entity)
		stats.HandsPlayed++
	}
	for _, id := range out.Winners {
		entity, ok := w.byID[id]
		if !ok {
			continue
		}
		_, _, _, stats := w.mapper.Get(entity)
		stats.HandsWon++
	}
}

// SpecFor builds a session seat for an entity: humans get a command-driven
// seat, everything else plays its gene-derived policy.
func (w *World) SpecFor(id table.PlayerID) (session.PlayerSpec, bool) {
	entity, ok := w.byID[id]
	if !ok {
		return session.PlayerSpec{}, false
	}
	identity, _, genes, _ := w.mapper.Get(entity)
	spec := session.PlayerSpec{ID: id, Species: identity.Species}
	if identity.Species != traits.Human {
		spec.Policy = ai.NewFishFromGene(genes.Aggression, rand.New(rand.NewSource(w.rng.Int63())))
	}
	return spec, true
}

// SampleForBenchmark implements benchmark.Population: a uniform sample of
// the non-human population, stable for a fixed rng.
func (w *World) SampleForBenchmark(n int, rng *rand.Rand) []benchmark.Individual {
	var pool []benchmark.Individual
	query := w.filter.Query()
	for query.Next() {
		identity, _, genes, stats := query.Get()
		if identity.Species == traits.Human {
			continue
		}
		pool = append(pool, benchmark.Individual{
			ID:         table.PlayerID(identity.ID),
			Aggression: genes.Aggression,
			Elo:        stats.Elo,
		})
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > 0 && n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

// SetElo implements benchmark.Population.
func (w *World) SetElo(id table.PlayerID, elo float64) {
	entity, ok := w.byID[id]
	if !ok {
		return
	}
	_, _, _, stats := w.mapper.Get(entity)
	stats.Elo = elo
}

// Stats returns a copy of an entity's play stats.
func (w *World) Stats(id table.PlayerID) (components.PlayStats, bool) {
	entity, ok := w.byID[id]
	if !ok {
		return components.PlayStats{}, false
	}
	_, _, _, stats := w.mapper.Get(entity)
	return *stats, true
}
