// Package machine defines the single-tape Turing machine description that
// callers submit for execution: the state space, the transition table, the
// start and accept states and the tape itself, together with the head
// position and current state that allow an interrupted run to resume.
//
// A machine is decoded from a JSON or YAML document:
//
//	{
//	  "stateSpace": ["q1", "qa"],
//	  "transitionSpace": [
//	    {"readState": "q1", "readSymbol": "_", "writeState": "qa", "writeSymbol": null, "moveDirection": true}
//	  ],
//	  "startState": "q1",
//	  "acceptState": "qa",
//	  "tape": "0101"
//	}
//
// A null writeSymbol leaves the cell untouched and a null moveDirection keeps
// the head in place, which allows a transition to read without consuming.
package machine
