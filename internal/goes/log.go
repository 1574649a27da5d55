// Copyright © 2016-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import "log"

// PlainLog prefixes messages of the standard logger with the program name
// and nothing else.
func PlainLog() {
	log.SetFlags(0)
	log.SetPrefix(Prog + ": ")
}
