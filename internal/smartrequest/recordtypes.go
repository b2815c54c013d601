package smartrequest

import (
	"slices"

	"github.com/gyeh/mrrequest/internal/model"
)

// InfantRecordTypes are requested for infant records.
var InfantRecordTypes = []string{
	"Cardiology Reports",
	"Laboratory and Hematology",
	"Labor and Delivery Records",
	"Audiology Report",
	"Admission Report",
	"Scanned Documents",
	"Medication Information",
	"History and Physical",
	"Radiology Report",
	"Coding Summary",
	"Flowsheets",
	"Occupational Therapy",
	"Physician Orders",
	"Speech Therapy",
	"Ultrasound",
	"Demographic",
	"Orders and Results",
	"Facesheet",
	"Operative Report",
	"Pathology Report",
	"Physician Progress Notes",
	"Physical Therapy Rehab records",
	"Transfer Report",
	"Medication Orders",
	"Consults",
	"Problem List",
	"Discharge Instructions",
	"Prenatal Care",
	"Discharge Summary",
	"Birth Letter Confirmation",
	"Continuity of Care Document",
	"Nursing Notes",
	"Toxicology Reports",
}

// MomRecordTypes are requested for maternal records.
var MomRecordTypes = []string{
	"Laboratory and Hematology",
	"Labor and Delivery Records",
	"Admission Report",
	"Scanned Documents",
	"Medication Information",
	"History and Physical",
	"Coding Summary",
	"Flowsheets",
	"Physician Orders",
	"Ultrasound",
	"Demographic",
	"Orders and Results",
	"Facesheet",
	"ED Records",
	"Operative Report",
	"Pathology Report",
	"Physician Progress Notes",
	"Transfer Report",
	"Medication Orders",
	"Consults",
	"Problem List",
	"Discharge Instructions",
	"Prenatal Care",
	"Discharge Summary",
	"Birth Letter Confirmation",
	"Continuity of Care Document",
	"Nursing Notes",
	"Toxicology Reports",
}

// CombinedRecordTypes is the sorted union of both lists.
var CombinedRecordTypes = combine(MomRecordTypes, InfantRecordTypes)

func combine(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// RecordTypesFor returns a copy of the record-type list for purpose.
func RecordTypesFor(p model.Purpose) []string {
	switch p.Code {
	case model.PurposeMother.Code:
		return slices.Clone(MomRecordTypes)
	case model.PurposeInfant.Code:
		return slices.Clone(InfantRecordTypes)
	default:
		return slices.Clone(CombinedRecordTypes)
	}
}
