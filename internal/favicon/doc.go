// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package favicon fetches a site's icon and stores it under the icons
directory so links can reference it locally.

Candidates are tried in order until one returns 200 with a body larger
than 100 bytes:

 1. <link rel="icon">, "shortcut icon" and "apple-touch-icon" from the page
 2. /favicon.ico
 3. /favicon.png
 4. /apple-touch-icon.png

Every request passes the SSRF Guard twice: once on the URL and once on the
address actually dialed. Outbound traffic is throttled by a token bucket
and wrapped in a circuit breaker named "favicon".
*/
package favicon
