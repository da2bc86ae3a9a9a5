// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package deque

import "github.com/gopherlabs/anchordeque/internal/cerr"

// errInvalidStatus indicates an anchor was observed with a status value this
// package never produces. It can only mean memory corruption or a bug in
// this package, not misuse by a caller, so it is a panic rather than a
// returned error.
const errInvalidStatus = cerr.Error("deque: anchor observed with invalid status")
