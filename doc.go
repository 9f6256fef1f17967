/*
Package xwire is the wire layer of an X11 client binding: it encodes
requests, decodes replies, events and errors, and pairs every reply with the
request that caused it.

It is *very* closely modeled on XCB. Requests return cookies, and a cookie
is later asked for its reply (or, for requests without a reply, checked for
an error). Protocol packages such as xproto, xinerama and shape sit on top of
xwire and only declare wire layouts; xwire knows nothing about windows,
atoms or pixmaps.

Example

This example connects to X, binds the Xinerama extension and prints the
geometry of every head. More complete programs live in examples/.

	package main

	import (
		"fmt"
		"log"

		"github.com/BurntSushi/xwire"
		"github.com/BurntSushi/xwire/xinerama"
		"github.com/BurntSushi/xwire/xproto"
	)

	func main() {
		reg := xwire.NewRegistry()
		xproto.Register(reg)
		xinerama.Register(reg)

		X, err := xwire.Connect("", reg)
		if err != nil {
			log.Fatal(err)
		}
		defer X.Close()

		reply, err := xinerama.QueryScreens(X).Reply()
		if err != nil {
			log.Fatal(err)
		}
		for i, screen := range reply.ScreenInfo {
			fmt.Printf("%d :: X: %d, Y: %d, Width: %d, Height: %d\n",
				i, screen.XOrg, screen.YOrg, screen.Width, screen.Height)
		}
	}

Registries

A Registry lists every protocol the program speaks: the core protocol at
offset 0 and each extension by name. Build it once, before the first
connection, and pass it to every Conn. The registry is frozen by NewConn.
Each Conn asks the server with QueryExtension where every registered
extension lives, and builds its own dispatch tables from the answers.
Extensions the server does not have are skipped; their requests fail with
ErrExtensionNotPresent.

Checked and unchecked requests

Every request comes in three flavors. Op uses the default mode: requests
with a reply are checked, requests without one are not. OpChecked makes a
request without a reply report its error through VoidCookie.Check.
OpUnchecked makes a request with a reply deliver its error through
WaitForEvent; its Reply then returns ErrNoReply.

Errors come in three kinds. Connection errors (ErrInvalidConn and friends)
are terminal. Protocol errors implement Error and are returned by Reply,
Check, WaitForEvent or PollForEvent. Programming errors wrap ErrUsage,
ErrBounds or ErrCount and never change the state of the connection.

Sequence numbers

The server only sends back the low 16 bits of a request's sequence number.
A Conn widens them again, which only works while fewer than 65536 requests
are in flight, so it forces a round trip every 65530 requests that nothing
waited on.

Concurrency

A Conn has a single lock and starts no goroutines; blocking calls read from
the transport while holding it. NetTransport, the transport over a net.Conn,
reads with one goroutine of its own so that PollForEvent never blocks.

Decoding

Messages are decoded with a Cursor, which tracks an offset into one message
and refuses to read past its end. Fixed layouts can be described with a
Format ("xB2xHI") and read in one Unpack. Lists of integers are read with a
single ReadScalars; lists of structs with ReadStructList, either with a
count or until the end of the message.
*/
package xwire
