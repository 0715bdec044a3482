// Package roles defines the closed service-role vocabulary and the policy
// tables shared by the write path and the read/normalize path: display
// labels, capability tags, storage columns, assignment arity, rotation
// eligibility, and the required subset per service time.
package roles

import "strings"

// Key identifies one service role. The set of keys is closed; tokens
// outside it are dropped wherever role lists are ingested.
type Key string

// Role keys. Stable across all interfaces.
const (
	Celebrant          Key = "celebrant"
	Preacher           Key = "preacher"
	Officiant          Key = "officiant"
	Lector             Key = "lector"
	LEM                Key = "lem"
	Acolyte            Key = "acolyte"
	Thurifer           Key = "thurifer"
	Usher              Key = "usher"
	AltarGuild         Key = "altarGuild"
	Choirmaster        Key = "choirmaster"
	Organist           Key = "organist"
	Sound              Key = "sound"
	CoffeeHour         Key = "coffeeHour"
	BuildingSupervisor Key = "buildingSupervisor"
	Childcare          Key = "childcare"
)

// Definition describes one role for display purposes.
type Definition struct {
	Key   Key
	Label string
	Tags  []string
}

// definitions is the single declarative role schema. Order here is the
// canonical roster order used everywhere a role list is rendered.
var definitions = []Definition{
	{Key: Celebrant, Label: "Celebrant", Tags: []string{"clergy"}},
	{Key: Preacher, Label: "Preacher", Tags: []string{"clergy"}},
	{Key: Officiant, Label: "Officiant", Tags: []string{"clergy"}},
	{Key: Lector, Label: "Lector", Tags: []string{"reader", "volunteer"}},
	{Key: LEM, Label: "LEM / Chalice Bearer", Tags: []string{"lay eucharistic minister", "volunteer"}},
	{Key: Acolyte, Label: "Acolyte", Tags: []string{"altar server", "volunteer"}},
	{Key: Thurifer, Label: "Thurifer", Tags: []string{"altar server", "volunteer"}},
	{Key: Usher, Label: "Usher", Tags: []string{"hospitality", "volunteer"}},
	{Key: AltarGuild, Label: "Altar Guild", Tags: []string{"sacristy", "volunteer"}},
	{Key: Choirmaster, Label: "Choirmaster", Tags: []string{"music", "staff"}},
	{Key: Organist, Label: "Organist", Tags: []string{"music", "staff"}},
	{Key: Sound, Label: "Sound Engineer", Tags: []string{"tech", "volunteer"}},
	{Key: CoffeeHour, Label: "Coffee Hour", Tags: []string{"hospitality", "volunteer"}},
	{Key: BuildingSupervisor, Label: "Building Supervisor", Tags: []string{"facilities", "staff"}},
	{Key: Childcare, Label: "Childcare", Tags: []string{"childcare", "volunteer"}},
}

// storageColumns maps each role to its schedule-store column.
var storageColumns = map[Key]string{
	Celebrant:          "celebrant",
	Preacher:           "preacher",
	Officiant:          "officiant",
	Lector:             "lector",
	LEM:                "chalice_bearer",
	Acolyte:            "acolyte",
	Thurifer:           "thurifer",
	Usher:              "usher",
	AltarGuild:         "altar_guild",
	Choirmaster:        "choirmaster",
	Organist:           "organist",
	Sound:              "sound_engineer",
	CoffeeHour:         "coffee_hour",
	BuildingSupervisor: "building_supervisor",
	Childcare:          "childcare",
}

// multiAssignment lists the roles that hold a deduplicated set of people.
// Every other role holds at most one person.
var multiAssignment = map[Key]bool{
	Lector:     true,
	LEM:        true,
	Acolyte:    true,
	Usher:      true,
	Sound:      true,
	CoffeeHour: true,
	Childcare:  true,
}

// earlySubset is the reduced roster exposed by the abbreviated early
// service. The primary service exposes every role.
var earlySubset = []Key{Celebrant, Preacher, Lector, Organist}

// rotationRoles are the roles filled by the monthly team rotation.
var rotationRoles = []Key{LEM, Acolyte, Usher}

// All returns every role key in canonical roster order.
func All() []Key {
	keys := make([]Key, len(definitions))
	for i, def := range definitions {
		keys[i] = def.Key
	}
	return keys
}

// Lookup returns the definition for a key.
func Lookup(k Key) (Definition, bool) {
	for _, def := range definitions {
		if def.Key == k {
			return def, true
		}
	}
	return Definition{}, false
}

// Known reports whether token is a recognized role key and returns it.
func Known(token string) (Key, bool) {
	k := Key(token)
	if _, ok := storageColumns[k]; ok {
		return k, true
	}
	return "", false
}

// Label returns the display label for a key, or the raw key when unknown.
func Label(k Key) string {
	if def, ok := Lookup(k); ok {
		return def.Label
	}
	return string(k)
}

// StorageColumn returns the schedule-store column backing a role.
func StorageColumn(k Key) string {
	return storageColumns[k]
}

// Multi reports whether a role accepts multiple people.
func Multi(k Key) bool {
	return multiAssignment[k]
}

// RotationRoles returns the rotation-eligible roles.
func RotationRoles() []Key {
	out := make([]Key, len(rotationRoles))
	copy(out, rotationRoles)
	return out
}

// EarlyService reports whether a raw service time denotes the abbreviated
// early service ("08:00", "8:00", "8:00 AM" all qualify).
func EarlyService(serviceTime string) bool {
	t := strings.TrimSpace(serviceTime)
	return strings.HasPrefix(t, "08:") || strings.HasPrefix(t, "8:")
}

// RequiredForTime returns the role subset a service at the given time
// exposes, in canonical order.
func RequiredForTime(serviceTime string) []Key {
	if EarlyService(serviceTime) {
		out := make([]Key, len(earlySubset))
		copy(out, earlySubset)
		return out
	}
	return All()
}
