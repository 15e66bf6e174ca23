// Package tooring provides a distributed fair-share Turing machine service.
//
// Clients submit machine documents, schedule them on behalf of an identity
// and later fetch the computed tape. Any number of worker loops, in any
// number of processes sharing the same store, pick the scheduled task whose
// owner has the highest credit score, execute it under an exclusive per task
// lock and credit themselves. Scheduling debits the requester, so identities
// that contribute work get their tasks served first.
//
// The pieces are layered as:
//
//   - runtime/engine   – single threaded machine interpreter
//   - service/dao/task – task registry with expiry
//   - service/ledger   – identity credit scores
//   - service/claim    – per task lock and scheduling
//   - service/selector – fair share task selection
//   - service/processor – worker loops
//   - service/reclaimer – heals tasks left busy by crashed workers
//
// End-users typically interact with the high-level Service façade:
//
//	srv, _ := tooring.New()
//	id, _ := srv.SubmitURL(ctx, "machine.yaml")
//	_, _ = srv.Schedule(ctx, "u1", id)
//	_ = srv.StartWorkers(ctx, "w1")
//	result, _ := srv.Fetch(ctx, id)
//
// Processes sharing a consul agent (see service/store/consul) form one
// cluster.
package tooring
