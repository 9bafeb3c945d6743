// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package models defines the data structures shared across Streamrank.

Candidate items come in three variants, *Event, *Spark and *Job, all of
which satisfy the Candidate interface. Ranking code never inspects the
variant to read classification values; it asks for them through
Taggable:

	industries := candidate.Tags(models.AttrIndustry)

Group-level attributes (industry, country, company size) are merged into
the item's own values, with empty strings and duplicates removed.

The package also holds User and Interaction, and the APIResponse
envelope used by the HTTP layer.
*/
package models
