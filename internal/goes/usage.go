// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import "context"

// Usage prints this formatted text.
//
//	usage: PATH ARGS...
//
// Where PATH is the space separated elements pushed onto the context,
// less any "help" preemption. The ARGS are formatted with `fmt.Print`
// WITHOUT space separation; a Selection arg prints its sorted keys, one
// per line.
func Usage(ctx context.Context, args ...interface{}) {
	o := OutputOf(ctx)
	o.Print("usage:")
	for i, s := range PathOf(ctx) {
		if i == 1 && preemptive[s] {
			continue
		}
		o.Print(" ", s)
	}
	end := "\n"
	if len(args) == 0 {
		o.Print(end)
		return
	}
	o.Print(" ")
	for _, v := range args {
		if sel, ok := v.(Selection); ok {
			end = ""
			for _, s := range sel.Keys() {
				o.Println(" ", s)
			}
		} else {
			o.Print(v)
		}
	}
	o.Print(end)
}
