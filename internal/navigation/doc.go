// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package navigation is the ordered collection engine: categories holding
ordered links, with a read-through cache in front of the nested view.

Service validates input, delegates persistence to a Store (database.DB in
production) and invalidates every "links:" cache entry after each write,
including writes that fail partway. Reads of the nested view are cached
under two keys:

	links:all     every category (admin)
	links:public  categories with auth_required=false only

Ordering:
  - ReorderCategory and ReorderLink swap one item with its neighbour and
    report false at either boundary
  - BatchReorderCategories and BatchReorderLinks assign sort_order = index
    for the given sequence and skip unknown entries

Export and Import move the whole tree as JSON. Import accepts the native
export document and SunPanel's icon groups; bad items are skipped and
listed in the ImportReport rather than failing the batch.
*/
package navigation
