// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package bulk adds score links to a mailing-list CSV.

Input needs a header row with an email column (email, Email or
teacherEmail) and optionally a campaign column (campaign, Campaign or
campaignId). Every other column is copied to the output and stored in the
tokens as metadata:

	email,campaign,school
	teacher@example.com,fall-2025,HighSchool1

becomes

	email,campaign,link_1,...,link_5,school

Rows without an email are skipped with a warning.
*/
package bulk
