// Package shipnames translates ship type IDs to display names.
//
// The statistics and report layers take a Resolver function rather
// than depending on this package directly, so the static table can be
// swapped for a live type lookup without touching them.
package shipnames

import "fmt"

// Resolver translates a ship type ID to a display name.
type Resolver func(typeID int64) string

// CapsuleTypeID is the escape pod: the one hull excluded from all
// statistics.
const CapsuleTypeID int64 = 670

// hullNames is a static table of hull type IDs seen on killmails.
// Incomplete by nature; unknown IDs fall back to a synthesized name.
var hullNames = map[int64]string{
	582:   "Bantam",
	583:   "Condor",
	587:   "Rifter",
	591:   "Tormentor",
	593:   "Tristan",
	597:   "Punisher",
	598:   "Breacher",
	602:   "Kestrel",
	603:   "Merlin",
	608:   "Atron",
	609:   "Maulus",
	620:   "Osprey",
	621:   "Caracal",
	622:   "Stabber",
	623:   "Moa",
	624:   "Maller",
	626:   "Vexor",
	627:   "Rupture",
	628:   "Arbitrator",
	629:   "Bellicose",
	630:   "Blackbird",
	631:   "Scythe",
	632:   "Augoror",
	633:   "Celestis",
	634:   "Exequror",
	638:   "Raven",
	639:   "Tempest",
	640:   "Scorpion",
	641:   "Megathron",
	642:   "Apocalypse",
	643:   "Armageddon",
	644:   "Typhoon",
	645:   "Dominix",
	670:   "Capsule",
	16227: "Ferox",
	16229: "Brutix",
	16231: "Cyclone",
	16233: "Prophecy",
	17619: "Caldari Navy Hookbill",
	17703: "Imperial Navy Slicer",
	17812: "Republic Fleet Firetail",
	17841: "Federation Navy Comet",
	17922: "Ashimmu",
	22436: "Sleipnir",
	22440: "Absolution",
	22444: "Nighthawk",
	22448: "Astarte",
	22452: "Heretic",
	22456: "Sabre",
	22460: "Eris",
	22464: "Flycatcher",
	29984: "Tengu",
	29986: "Legion",
	29988: "Proteus",
	29990: "Loki",
	33328: "Capsule - Genolution 'Auroral' 197-variant",
}

// Default returns a resolver backed by the static hull table.
//
// Unknown type IDs resolve to "Ship_<id>".
func Default() Resolver {
	return func(typeID int64) string {
		if name, ok := hullNames[typeID]; ok {
			return name
		}
		return fmt.Sprintf("Ship_%d", typeID)
	}
}
