package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flat-string encodings for the text-array storage columns. Limits are stored
// as "roleId:limit" and audit entries as "roleId:memberId:inviterId". Only
// round-trip fidelity is required; malformed entries are skipped on decode.

// EncodeRoleLimits renders the limits map as sorted "roleId:limit" strings.
func EncodeRoleLimits(limits map[string]int) []string {
	out := make([]string, 0, len(limits))
	for roleID, limit := range limits {
		out = append(out, roleID+":"+strconv.Itoa(limit))
	}
	sort.Strings(out)
	return out
}

// DecodeRoleLimits parses "roleId:limit" strings back into a map. Entries
// that do not parse to a positive limit are dropped.
func DecodeRoleLimits(encoded []string) map[string]int {
	if len(encoded) == 0 {
		return nil
	}
	limits := make(map[string]int, len(encoded))
	for _, entry := range encoded {
		roleID, raw, ok := strings.Cut(entry, ":")
		if !ok || roleID == "" {
			continue
		}
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			continue
		}
		limits[roleID] = limit
	}
	if len(limits) == 0 {
		return nil
	}
	return limits
}

// EncodeAddedBy renders the audit trail as sorted "roleId:memberId:inviterId"
// strings.
func EncodeAddedBy(addedBy map[string]map[string]string) []string {
	var out []string
	for roleID, members := range addedBy {
		for memberID, inviterID := range members {
			out = append(out, fmt.Sprintf("%s:%s:%s", roleID, memberID, inviterID))
		}
	}
	sort.Strings(out)
	return out
}

// DecodeAddedBy parses "roleId:memberId:inviterId" strings back into the
// nested audit map.
func DecodeAddedBy(encoded []string) map[string]map[string]string {
	if len(encoded) == 0 {
		return nil
	}
	addedBy := make(map[string]map[string]string)
	for _, entry := range encoded {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			continue
		}
		if addedBy[parts[0]] == nil {
			addedBy[parts[0]] = make(map[string]string)
		}
		addedBy[parts[0]][parts[1]] = parts[2]
	}
	if len(addedBy) == 0 {
		return nil
	}
	return addedBy
}
