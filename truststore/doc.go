// Copyright 2024 Anchor Security, Inc. & The mkcert Authors. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.
//
// Implementation was based upon mkcert and the work
// of the mkcert authors at https://github.com/FiloSottile/mkcert

/*
Package truststore installs a root CA into local trust databases.

Each Target reports one Outcome per trust database it considers. Only a native store that
the platform claims to support can fail the whole install.
*/
package truststore
