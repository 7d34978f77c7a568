/*
Package types defines the data structures shared across mqttcmd.

# Configuration Documents

Document is the JSON document the user edits. Only the "brokers" array is
interpreted; every other top-level field is carried through untouched so that
a document survives load, edit and storage round-trips byte-for-byte in
meaning.

	{
	  "brokers": [
	    {
	      "title": "Local",
	      "host": "localhost",
	      "port": 1883,
	      "username": "",
	      "password": "",
	      "extraArgs": "--protocol-version 5",
	      "topics": ["sensors/#"]
	    }
	  ],
	  "topics": ["devices/+/status"]
	}

Broker fields other than the six known ones are kept in Broker.Extra.
Port keeps whether it was written as a string or a number.

# Persistence

PersistedAppState is the projection written to durable storage. It stores the
selected broker by title only; callers re-resolve it against the current
document when loading.

# History

HistoryEntry pairs a display name with the document that was applied.
*/
package types
