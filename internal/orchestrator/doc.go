/*
Package orchestrator drives the nested conversation state machine.

A submitted user turn is routed to the handler on top of the dialog
stack. The handler's agent produces one turn at a time; the engine
interprets it, executes safe actions immediately, suspends on sensitive
ones until the caller decides, and follows handoffs up and down the
stack until a handler yields a plain reply.
*/
package orchestrator
