package feedback

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amit/captainhub/internal/team"
)

type entry struct {
	title string
	body  string
}

var catalogs = map[language.Tag]map[string]entry{
	Italian: {
		TeamCreated:       {"🏆 Dinastia Fondata!", "La squadra olimpica \"%s\" è stata fondata!\nCapitano %s, che gli dèi ti benedicano nella tua missione!"},
		MemberAdded:       {"⚡ Nuovo Atleta!", "%s si è unito alla tua squadra olimpica! Il morale della squadra aumenta!"},
		MemberRemoved:     {"👋 Atleta Partito", "%s ha lasciato la squadra olimpica. Il morale della squadra diminuisce."},
		ChallengeRecorded: {"🎯 Sfida Registrata!", "%s completata al %s!\n+%d punti conquistati per la gloria olimpica!"},
		NotesSaved:        {"📜 Note Archiviate!", "Le tue strategie sono state salvate negli annali olimpici"},
		ExportCreated:     {"💾 Backup Creato!", "I dati della squadra olimpica sono stati esportati negli archivi eterni!"},
		ExportFailed:      {"❌ Errore Export", "Non è stato possibile creare il backup dei dati"},
		TeamReset:         {"🧹 Dati Azzerati", "La squadra, le sfide, le statistiche e le note sono state cancellate."},
		ResetConfirm:      {"⚠️ ATTENZIONE", "Sei sicuro di voler resettare tutti i dati olimpici?\nQuesta azione cancellerà la squadra, le sfide, le statistiche e le note.\nL'azione non può essere annullata."},

		"action.rally":    {"📢 RADUNO OLIMPICO!", "Hai chiamato a raccolta tutti gli atleti olimpici!\nLa loro determinazione cresce! Morale +12, Energia +8"},
		"action.strategy": {"🗺️ CONSIGLIO DI GUERRA!", "Hai organizzato una riunione strategica degna di Atena!\nLa saggezza tattica della squadra aumenta! Strategia +15, Morale +5"},
		"action.victory":  {"🎺 SUONA LA VITTORIA!", "Il suono della vittoria riecheggia nell'Olimpo!\nGli dèi sorridono alla tua squadra! Morale al massimo!"},

		"error.MISSING_FIELD":                  {"⚠️ Dati Mancanti", "Compila tutti i campi obbligatori."},
		"error.create_team.MISSING_FIELD":      {"⚠️ Campi Obbligatori", "Inserisci il nome della squadra e del capitano per fondare la tua dinastia olimpica!"},
		"error.record_challenge.MISSING_FIELD": {"⚠️ Dati Mancanti", "Specifica il tempio e il tipo di sfida olimpica completata!"},
		"error.NAME_TOO_SHORT":                 {"⚠️ Nome Troppo Breve", "Il nome della squadra deve essere degno dell'Olimpo! Almeno 3 caratteri."},
		"error.ALREADY_EXISTS":                 {"⚠️ Dinastia Già Fondata", "La tua squadra olimpica esiste già. Azzera i dati per fondarne una nuova."},
		"error.NOT_READY":                      {"⚠️ Squadra Non Creata", "Prima crea la squadra!"},
		"error.add_member.NOT_READY":           {"⚠️ Squadra Non Creata", "Prima crea la squadra, poi potrai aggiungere i tuoi atleti!"},
		"error.record_challenge.NOT_READY":     {"⚠️ Squadra Non Creata", "Prima crea la squadra per poter registrare le sfide olimpiche!"},
		"error.captain_action.NOT_READY":       {"⚠️ Squadra Non Creata", "Prima crea la squadra per usare i poteri del capitano!"},
		"error.MISSING_NAME":                   {"⚠️ Nome Mancante", "Inserisci il nome del nuovo atleta olimpico"},
		"error.ROSTER_FULL":                    {"⚠️ Squadra Completa", "L'Olimpo permette massimo %d atleti per squadra"},
		"error.DUPLICATE_NAME":                 {"⚠️ Nome Duplicato", "Questo atleta è già nella tua squadra olimpica!"},
		"error.CANNOT_REMOVE_CAPTAIN":          {"⚠️ Azione Impossibile", "Zeus non permette di rimuovere il capitano dalla squadra olimpica!"},
		"error.INDEX_OUT_OF_RANGE":             {"⚠️ Atleta Sconosciuto", "Questo atleta non fa parte della tua squadra olimpica."},
		"error.UNKNOWN_ACTION":                 {"⚠️ Potere Sconosciuto", "Gli dèi non conoscono questo comando del capitano."},
		"error.PERSISTENCE_FAILED":             {"⚠️ Salvataggio Non Riuscito", "I dati restano disponibili in questa sessione ma non sono stati archiviati."},
		"error.unknown":                        {"❌ Errore", "Qualcosa è andato storto. Riprova."},
	},
	English: {
		TeamCreated:       {"🏆 Dynasty Founded!", "The Olympic team \"%s\" has been founded!\nCaptain %s, may the gods bless your quest!"},
		MemberAdded:       {"⚡ New Athlete!", "%s joined your Olympic team! Team morale rises!"},
		MemberRemoved:     {"👋 Athlete Left", "%s left the Olympic team. Team morale drops."},
		ChallengeRecorded: {"🎯 Challenge Logged!", "%s completed at %s!\n+%d points won for Olympic glory!"},
		NotesSaved:        {"📜 Notes Archived!", "Your strategies were saved in the Olympic annals"},
		ExportCreated:     {"💾 Backup Created!", "The Olympic team data was exported to the eternal archives!"},
		ExportFailed:      {"❌ Export Error", "The data backup could not be created"},
		TeamReset:         {"🧹 Data Cleared", "The team, challenges, stats and notes were deleted."},
		ResetConfirm:      {"⚠️ WARNING", "Are you sure you want to reset all Olympic data?\nThis deletes the team, challenges, stats and notes.\nIt cannot be undone."},

		"action.rally":    {"📢 OLYMPIC RALLY!", "You called every Olympic athlete together!\nTheir resolve grows! Morale +12, Energy +8"},
		"action.strategy": {"🗺️ COUNCIL OF WAR!", "You held a strategy meeting worthy of Athena!\nThe team's tactical wisdom grows! Strategy +15, Morale +5"},
		"action.victory":  {"🎺 SOUND THE VICTORY!", "The sound of victory echoes across Olympus!\nThe gods smile on your team! Morale at maximum!"},

		"error.MISSING_FIELD":                  {"⚠️ Missing Data", "Fill in every required field."},
		"error.create_team.MISSING_FIELD":      {"⚠️ Required Fields", "Enter the team name and the captain name to found your Olympic dynasty!"},
		"error.record_challenge.MISSING_FIELD": {"⚠️ Missing Data", "Name the temple and the kind of Olympic challenge completed!"},
		"error.NAME_TOO_SHORT":                 {"⚠️ Name Too Short", "The team name must be worthy of Olympus! At least 3 characters."},
		"error.ALREADY_EXISTS":                 {"⚠️ Dynasty Already Founded", "Your Olympic team already exists. Reset the data to found a new one."},
		"error.NOT_READY":                      {"⚠️ Team Not Created", "Create the team first!"},
		"error.add_member.NOT_READY":           {"⚠️ Team Not Created", "Create the team first, then you can add your athletes!"},
		"error.record_challenge.NOT_READY":     {"⚠️ Team Not Created", "Create the team first to log Olympic challenges!"},
		"error.captain_action.NOT_READY":       {"⚠️ Team Not Created", "Create the team first to use the captain's powers!"},
		"error.MISSING_NAME":                   {"⚠️ Missing Name", "Enter the name of the new Olympic athlete"},
		"error.ROSTER_FULL":                    {"⚠️ Team Complete", "Olympus allows at most %d athletes per team"},
		"error.DUPLICATE_NAME":                 {"⚠️ Duplicate Name", "This athlete is already on your Olympic team!"},
		"error.CANNOT_REMOVE_CAPTAIN":          {"⚠️ Not Allowed", "Zeus does not allow removing the captain from the Olympic team!"},
		"error.INDEX_OUT_OF_RANGE":             {"⚠️ Unknown Athlete", "This athlete is not part of your Olympic team."},
		"error.UNKNOWN_ACTION":                 {"⚠️ Unknown Power", "The gods do not know this captain command."},
		"error.PERSISTENCE_FAILED":             {"⚠️ Save Failed", "Your data is still available in this session but was not stored."},
		"error.unknown":                        {"❌ Error", "Something went wrong. Try again."},
	},
}

var labels = map[language.Tag]map[team.ChallengeType]string{
	Italian: {
		team.TypeQuiz:        "🧠 Quiz Olimpico",
		team.TypePerformance: "🎭 Performance Teatrale",
		team.TypeCreativity:  "🎨 Creatività Divina",
		team.TypePenalty:     "😅 Penitenze Goliardiche",
		team.TypeCode:        "🔍 Enigmi Ancestrali",
		team.TypeFinal:       "🏆 Gran Finale",
	},
	English: {
		team.TypeQuiz:        "🧠 Olympic Quiz",
		team.TypePerformance: "🎭 Theatrical Performance",
		team.TypeCreativity:  "🎨 Divine Creativity",
		team.TypePenalty:     "😅 Goliardic Forfeits",
		team.TypeCode:        "🔍 Ancient Riddles",
		team.TypeFinal:       "🏆 Grand Finale",
	},
}

func init() {
	for tag, entries := range catalogs {
		for key, e := range entries {
			_ = message.SetString(tag, key+".title", e.title)
			_ = message.SetString(tag, key+".body", e.body)
		}
	}
	for tag, byType := range labels {
		for t, label := range byType {
			_ = message.SetString(tag, "label."+string(t), label)
		}
	}
}
