/*
Package resources locates the external collaborators of an extraction run:
the emoji font file and the Unicode emoji data files.

As resource loading may be a time-consuming task (the Unicode data files are
fetched over the network on first use), some functions in this package work
in an async/await fashion by returning a promise. Functions named

	Resolve…(…)  /  EmojiSequences()  /  EmojiTest()

return a resource-specific promise type, which the client calls later to
receive the loaded resource. The call to the promise-function will then
block until loading has completed.

Downloaded data files are cached in the user's cache directory under the
application key and reused on subsequent runs.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Samuel <hello@samuelngs.com>
*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'emoji.resources'.
func tracer() tracing.Trace {
	return tracing.Select("emoji.resources")
}
