/*
Package concierge is a conversation orchestration engine for airline
customer support, built as a nested state machine of cooperating
handlers.

A primary handler owns the conversation and delegates specialized work
(flight changes, hotel bookings) to scoped handlers through a dialog
stack. Every handler turn is produced by an opaque reasoning step (an
"agent") and interpreted by the engine: plain replies end the turn,
safe read-only actions execute immediately, and sensitive mutating
actions suspend the session until the caller explicitly approves or
rejects them. All state is checkpointed after every turn, so a session
survives process restarts mid-approval.

# Architecture

The engine follows a hexagonal layout. Core logic lives in the domain
and orchestrator; everything replaceable is a port with adapters:

  - StateStore: session checkpoints (in-memory, Redis)
  - TravelStore: flight and hotel inventory (in-memory, PostgreSQL)
  - PolicyIndex: company policy retrieval (Loam document corpus)
  - Agent: the per-handler reasoning step (scripted rules by default)

# Usage

	eng, err := concierge.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	res, err := eng.Submit(ctx, "session-1", "passenger-42", "cancel ticket 7240005432906569")
	if err != nil {
		log.Fatal(err)
	}

	if res.RequiresDecision {
		// Sensitive action: nothing has run yet. Approve or reject.
		res, err = eng.SubmitDecision(ctx, "session-1", "passenger-42", true, "")
	}
	fmt.Println(res.Reply)
*/
package concierge
