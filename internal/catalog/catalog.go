// Package catalog holds the static leave type taxonomy. It is the single
// source of truth for both the basket validator and the request validator.
package catalog

import (
	"net/http"

	"hrportal/internal/shared/apperror"
)

const (
	MainRegular     = "Congé"
	MainExceptional = "Congé exceptionnel"

	SubRTT = "RTT"
	SubCPP = "CPP"

	// Exceptional groups
	SubCivisme      = "Civisme"
	SubDivers       = "Divers"
	SubEvolutionPro = "Evolution professionnelle"
	SubFamille      = "Famille"
	SubGTA          = "GTA"
	SubHandicap     = "Handicap"
	SubHeures       = "Heures"
	SubMaladie      = "Maladie / Accident"
	SubSansSolde    = "Sans solde"
)

// Bucket names the numeric balance a leave type draws from.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketRTT
	BucketCPP
)

var ErrInvalidLeaveType = apperror.New(
	apperror.CodeInvalidLeaveType,
	"Invalid leave type combination",
	http.StatusBadRequest,
)

// exceptionalGroups lists the specific types of each exceptional group,
// mirroring the leave request form hierarchy.
var exceptionalGroups = map[string][]string{
	SubCivisme: {
		"Activité civique(campagne électorale)",
		"Activité civique(mandat électral)",
		"C.H.S.C.T",
		"Citoyen assesseur",
		"Commission administrateur caisses retraite & prévention",
		"Congé des réservistes",
		"Conseil prud homal",
		"Délégué du personnel",
		"Délégué syndical",
		"Formation conseiller prud homal",
		"Juré d’assises",
		"Participation aux opérations de secours",
		"Période militaire de réservistes",
		"Représentant du comité d’entreprise",
		"Représentation d’association",
		"Réserve dans la sécurité civile",
		"Réserve sanitaire",
	},
	SubDivers: {
		"Absence catastrophe naturelle",
		"Absence diverses",
		"Acquisition de la nationalité francaise",
		"Chomage technique",
		"Contrepartie obligatoire repos",
		"Don d'ovocyte",
		"Remplacement(déplacement d'heures)",
		"Repos compensateur",
		"Retard",
		"Solidarité internationale",
	},
	SubEvolutionPro: {
		"Bilan de compétences",
		"Congé d'enseignement ou de recherche",
		"Congé de création d'entreprise",
		"Congé de formation économique soc. et syndic",
		"Congé de mobilité",
		"Congé de reclassement",
		"Congé éducation ouvrière",
		"Congé formation cadres et d'animateur",
		"Congé individuel de formation",
		"Congé mutualiste formation",
		"Congé pour examen",
		"DIF dans le temps de travail",
		"Formation (interne ou externe)",
		"Période de professionalisation",
		"Plan de formation",
		"Promotion sociale",
		"Recherche emploi",
		"Validation des acquis de l'experience",
	},
	SubFamille: {
		"Absence Enfant malade",
		"Absence adoption",
		"Absence paternité",
		"Congé de présence parentale",
		"Congé de solidarité familiale",
		"Congé de soutien familial",
		"Congé parental d'éducation",
		"Congés événement familial",
		"Congés naissance",
	},
	SubGTA: {
		"Absence à tort",
		"Activité normale",
		"Astreinte libre",
		"Astreinte non libre",
		"Chômé",
		"Déjeuner",
		"Férié",
		"Férié chômé",
		"Grève",
		"Pont",
		"Présence à tort",
	},
	SubHandicap: {
		"Inaptitude non professionnelle",
		"Inaptitude professionnelle",
	},
	SubHeures: {
		"Heures à créditer",
		"Heures à débiter",
		"Heures à ignorer",
		"Heures à majorer",
		"Heures à payer",
		"Heures à récupérer",
		"Heures d'intervention à payer",
		"Heures d'intervention à récupérer",
		"Heures de récupération",
		"Heures supplémentaires et complémentaires",
		"Visite médicale",
		"Visite médicale grossesse",
	},
	SubMaladie: {
		"Absence accident de trajet",
		"Absence accident de travail",
		"Absence maladie",
		"Absence maladie professionnelle",
		"Absence maternité",
	},
	SubSansSolde: {
		"Congé sabbatique",
		"Congé sans solde",
	},
}

// Validate checks a (mainCategory, subCategory, specificType) triple against
// the taxonomy. Regular leave takes no specific type. An exceptional group
// that lists specific types requires one of them.
func Validate(mainCategory, subCategory, specificType string) error {
	switch mainCategory {
	case MainRegular:
		if subCategory != SubRTT && subCategory != SubCPP {
			return ErrInvalidLeaveType
		}
		if specificType != "" {
			return ErrInvalidLeaveType
		}
		return nil

	case MainExceptional:
		specifics, ok := exceptionalGroups[subCategory]
		if !ok {
			return ErrInvalidLeaveType
		}
		if specificType == "" {
			if len(specifics) > 0 {
				return ErrInvalidLeaveType
			}
			return nil
		}
		for _, s := range specifics {
			if s == specificType {
				return nil
			}
		}
		return ErrInvalidLeaveType

	default:
		return ErrInvalidLeaveType
	}
}

// ValidateRequestType checks the flat leaveType field of a persisted request,
// which is either RTT, CPP, or one of the exceptional group names.
func ValidateRequestType(leaveType, subCategory string) error {
	if leaveType == SubRTT || leaveType == SubCPP {
		return nil
	}
	specifics, ok := exceptionalGroups[leaveType]
	if !ok {
		return ErrInvalidLeaveType
	}
	if subCategory == "" {
		return nil
	}
	for _, s := range specifics {
		if s == subCategory {
			return nil
		}
	}
	return ErrInvalidLeaveType
}

// IsExceptional reports whether leaveType is one of the exceptional groups.
func IsExceptional(leaveType string) bool {
	_, ok := exceptionalGroups[leaveType]
	return ok
}

// AllowsBackdate reports whether a request of this type may carry past dates.
func AllowsBackdate(leaveType string) bool {
	return leaveType == SubGTA
}

// DebitBucket names the balance pool a leave type draws from. Exceptional
// types do not debit any numeric balance.
func DebitBucket(leaveType string) Bucket {
	switch leaveType {
	case SubRTT:
		return BucketRTT
	case SubCPP:
		return BucketCPP
	default:
		return BucketNone
	}
}

// SupportedTypes returns the full nested taxonomy for the catalog endpoint.
func SupportedTypes() map[string]map[string][]string {
	out := map[string]map[string][]string{
		MainRegular: {
			SubRTT: {},
			SubCPP: {},
		},
		MainExceptional: {},
	}
	for group, specifics := range exceptionalGroups {
		list := make([]string, len(specifics))
		copy(list, specifics)
		out[MainExceptional][group] = list
	}
	return out
}

// RequestTypes lists every value accepted in a request's leaveType field.
func RequestTypes() []string {
	types := []string{SubRTT, SubCPP}
	for group := range exceptionalGroups {
		types = append(types, group)
	}
	return types
}
