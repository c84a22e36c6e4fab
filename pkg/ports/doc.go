/*
Package ports defines the driven ports (interfaces) for the Concierge engine.

These interfaces decouple the orchestration core from external
collaborators, allowing the engine to work with various checkpoint
backends, booking stores, and reasoning providers.

# Key Interfaces

  - StateStore: persists and loads durable conversation State per session.
  - DistributedLocker: coordinates session access across replicas.
  - Agent: the opaque reasoning step backing one handler.
  - TravelStore: the relational booking/record collaborator.
  - PolicyIndex: the policy document retrieval collaborator.
*/
package ports
