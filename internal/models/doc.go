// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package models defines the data structures shared by HomeNav packages.

Key Components:

  - Category, Link: rows of the ordered collection, as stored in DuckDB
  - NavigationView: the nested read model returned by GET /api/v1/links
  - APIResponse, APIError, Metadata: the JSON envelope of every endpoint
  - ErrNotFound, ErrDuplicateName, ErrForbidden, ErrValidation,
    ErrUpstreamUnavailable: domain sentinels matched with errors.Is

Navigation JSON keeps the historical wire names (categories, name,
auth_required, links, id, title, url, icon) so exported documents from older
installations import unchanged.
*/
package models
