package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type serviceSeed struct {
	Code         string
	Name         string
	Description  string
	Price        float64
	Duration     string
	Category     string
	Requirements []string
	Popular      bool
}

type countrySeed struct {
	ID              string
	Name            string
	Flag            string
	Currency        string
	ExchangeRate    string
	AverageTime     string
	UrgentAvailable bool
	OnlineAvailable bool
	Services        []serviceSeed
}

var countries = []countrySeed{
	{
		ID: "uae", Name: "Émirats Arabes Unis", Flag: "🇦🇪", Currency: "AED",
		ExchangeRate: "1 EUR = 4.05 AED", AverageTime: "3-7 jours ouvrables",
		UrgentAvailable: true, OnlineAvailable: true,
		Services: []serviceSeed{
			{Code: "residence-visa-new", Name: "Nouveau visa de résidence", Description: "Demande de nouveau visa de résidence pour les EAU", Price: 1200, Duration: "5-7 jours ouvrables", Category: "visa", Popular: true,
				Requirements: []string{"Passeport original valide", "Photos d'identité récentes", "Certificat médical approuvé", "Contrat de travail ou sponsorship", "Assurance santé valide"}},
			{Code: "residence-visa-renewal", Name: "Renouvellement visa de résidence", Description: "Renouvellement de visa de résidence existant", Price: 800, Duration: "3-5 jours ouvrables", Category: "visa",
				Requirements: []string{"Visa de résidence actuel", "Emirates ID", "Certificat médical récent", "Preuve d'emploi continu"}},
			{Code: "emirates-id-new", Name: "Nouvelle Emirates ID", Description: "Demande de nouvelle carte d'identité Emirates", Price: 350, Duration: "7-10 jours ouvrables", Category: "residence", Popular: true,
				Requirements: []string{"Visa de résidence valide", "Photos biométriques", "Formulaire de demande complété", "Frais de service"}},
			{Code: "emirates-id-renewal", Name: "Renouvellement Emirates ID", Description: "Renouvellement de carte Emirates ID existante", Price: 250, Duration: "5-7 jours ouvrables", Category: "residence",
				Requirements: []string{"Emirates ID actuelle", "Visa de résidence valide", "Photos biométriques récentes"}},
			{Code: "family-visa", Name: "Visa familial", Description: "Visa de résidence pour membres de la famille", Price: 1500, Duration: "7-10 jours ouvrables", Category: "family", Popular: true,
				Requirements: []string{"Certificat de mariage/naissance", "Passeports des membres de la famille", "Preuve de revenus suffisants", "Certificats médicaux", "Assurance santé familiale"}},
			{Code: "birth-certificate", Name: "Certificat de naissance", Description: "Enregistrement de naissance aux EAU", Price: 200, Duration: "3-5 jours ouvrables", Category: "family",
				Requirements: []string{"Certificat médical de naissance", "Passeports des parents", "Certificat de mariage", "Emirates ID des parents"}},
			{Code: "business-license", Name: "Licence commerciale", Description: "Nouvelle licence pour activité commerciale", Price: 2500, Duration: "10-15 jours ouvrables", Category: "business", Popular: true,
				Requirements: []string{"Plan d'affaires détaillé", "Preuve de capital initial", "Contrat de location commercial", "Approbations sectorielles si nécessaire"}},
			{Code: "business-license-renewal", Name: "Renouvellement licence commerciale", Description: "Renouvellement de licence commerciale existante", Price: 1800, Duration: "5-7 jours ouvrables", Category: "business",
				Requirements: []string{"Licence commerciale actuelle", "Rapports financiers", "Contrat de location valide", "Conformité réglementaire"}},
			{Code: "work-permit", Name: "Permis de travail", Description: "Nouveau permis de travail pour employé", Price: 600, Duration: "5-7 jours ouvrables", Category: "employment",
				Requirements: []string{"Contrat de travail signé", "Qualifications éducatives", "Certificat d'expérience", "Approbation MOL"}},
			{Code: "labour-card", Name: "Carte de travail", Description: "Carte de travail officielle du ministère", Price: 400, Duration: "3-5 jours ouvrables", Category: "employment",
				Requirements: []string{"Permis de travail approuvé", "Contrat de travail", "Certificat médical", "Photos d'identité"}},
			{Code: "police-clearance", Name: "Certificat de police", Description: "Certificat de bonne conduite des EAU", Price: 150, Duration: "2-3 jours ouvrables", Category: "other",
				Requirements: []string{"Emirates ID", "Demande en ligne", "Frais de service"}},
			{Code: "attestation-services", Name: "Services d'attestation", Description: "Attestation de documents officiels", Price: 300, Duration: "3-5 jours ouvrables", Category: "other",
				Requirements: []string{"Documents originaux", "Traductions certifiées si nécessaire", "Formulaires de demande"}},
		},
	},
	{
		ID: "qatar", Name: "Qatar", Flag: "🇶🇦", Currency: "QAR",
		ExchangeRate: "1 EUR = 4.02 QAR", AverageTime: "5-10 jours ouvrables",
		UrgentAvailable: true, OnlineAvailable: true,
		Services: []serviceSeed{
			{Code: "residence-permit", Name: "Permis de résidence", Description: "Nouveau permis de résidence au Qatar", Price: 1000, Duration: "7-10 jours ouvrables", Category: "residence", Popular: true,
				Requirements: []string{"Passeport valide", "Visa d'entrée", "Certificat médical", "Contrat de travail", "Photos d'identité"}},
			{Code: "work-visa", Name: "Visa de travail", Description: "Visa de travail pour le Qatar", Price: 800, Duration: "5-7 jours ouvrables", Category: "employment", Popular: true,
				Requirements: []string{"Offre d'emploi approuvée", "Qualifications éducatives", "Certificat médical", "Casier judiciaire"}},
			{Code: "family-visa", Name: "Visa familial", Description: "Visa de résidence pour la famille", Price: 1200, Duration: "7-10 jours ouvrables", Category: "family", Popular: true,
				Requirements: []string{"Preuve de revenus minimum", "Certificats familiaux", "Certificats médicaux", "Assurance santé"}},
			{Code: "business-registration", Name: "Enregistrement d'entreprise", Description: "Création d'entreprise au Qatar", Price: 2000, Duration: "10-15 jours ouvrables", Category: "business", Popular: true,
				Requirements: []string{"Plan d'affaires", "Capital minimum requis", "Partenaire local (si nécessaire)", "Licences sectorielles"}},
		},
	},
	{
		ID: "morocco", Name: "Maroc", Flag: "🇲🇦", Currency: "MAD",
		ExchangeRate: "1 EUR = 10.85 MAD", AverageTime: "15-30 jours ouvrables",
		UrgentAvailable: false, OnlineAvailable: false,
		Services: []serviceSeed{
			{Code: "carte-sejour", Name: "Carte de séjour", Description: "Carte de séjour temporaire ou permanente", Price: 200, Duration: "15-20 jours ouvrables", Category: "residence", Popular: true,
				Requirements: []string{"Passeport valide", "Justificatifs de revenus", "Certificat médical", "Casier judiciaire", "Contrat de location"}},
			{Code: "autorisation-travail", Name: "Autorisation de travail", Description: "Permis de travail pour étrangers", Price: 300, Duration: "20-30 jours ouvrables", Category: "employment", Popular: true,
				Requirements: []string{"Contrat de travail", "Diplômes et qualifications", "Certificat médical", "Autorisation employeur"}},
			{Code: "visa-investisseur", Name: "Visa investisseur", Description: "Visa pour investissement au Maroc", Price: 500, Duration: "30-45 jours ouvrables", Category: "business", Popular: true,
				Requirements: []string{"Plan d'investissement", "Preuve de fonds", "Étude de faisabilité", "Garanties bancaires"}},
			{Code: "creation-entreprise", Name: "Création d'entreprise", Description: "Enregistrement de nouvelle société", Price: 800, Duration: "20-30 jours ouvrables", Category: "business", Popular: true,
				Requirements: []string{"Statuts de la société", "Capital social", "Domiciliation", "Registre de commerce"}},
		},
	},
}

var destinations = []struct {
	ID           string
	CountryID    string
	Name         string
	Region       string
	Summary      string
	CostOfLiving string
	Highlights   []string
}{
	{"dubai", "uae", "Dubaï", "Moyen-Orient", "Hub économique mondial, 0% d'impôt sur le revenu, communauté francophone active.", "Élevé", []string{"Fiscalité avantageuse", "Sécurité", "Infrastructures modernes"}},
	{"abu-dhabi", "uae", "Abu Dhabi", "Moyen-Orient", "Capitale des EAU, cadre de vie familial, grandes institutions culturelles.", "Élevé", []string{"Qualité de vie", "Éducation internationale", "Stabilité"}},
	{"doha", "qatar", "Doha", "Moyen-Orient", "Croissance rapide, salaires attractifs, proximité de l'Europe.", "Élevé", []string{"Salaires élevés", "Ville nouvelle", "Aéroport hub"}},
	{"casablanca", "morocco", "Casablanca", "Afrique du Nord", "Capitale économique du Maroc, francophone, coût de la vie modéré.", "Modéré", []string{"Francophonie", "Proximité de la France", "Coût de la vie"}},
}

var jobSeeds = []struct {
	Title        string
	Company      string
	Location     string
	CountryID    string
	ContractType string
	SalaryRange  string
}{
	{"Ingénieur logiciel senior", "Gulf Tech Solutions", "Dubaï", "uae", "full_time", "25 000 - 35 000 AED/mois"},
	{"Responsable commercial francophone", "Emirates Trading Group", "Dubaï", "uae", "full_time", "18 000 - 24 000 AED/mois"},
	{"Infirmier diplômé d'État", "Hamad Medical Corporation", "Doha", "qatar", "full_time", "12 000 - 16 000 QAR/mois"},
	{"Professeur de français", "Lycée International de Doha", "Doha", "qatar", "full_time", "14 000 - 18 000 QAR/mois"},
	{"Chef de projet BTP", "Atlas Construction", "Casablanca", "morocco", "full_time", "25 000 - 35 000 MAD/mois"},
}

// SeedData loads the static catalog and content into an empty database. It is
// idempotent: a non-empty countries table skips the whole load.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM countries").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	serviceCount := 0
	for _, c := range countries {
		_, err := tx.Exec(ctx,
			`INSERT INTO countries (id, name, flag, currency, exchange_rate, average_time, urgent_available, online_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.ID, c.Name, c.Flag, c.Currency, c.ExchangeRate, c.AverageTime, c.UrgentAvailable, c.OnlineAvailable)
		if err != nil {
			return fmt.Errorf("insert country %s: %w", c.ID, err)
		}

		for _, s := range c.Services {
			_, err := tx.Exec(ctx,
				`INSERT INTO services (country_id, code, name, description, price, duration, category, requirements, popular)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				c.ID, s.Code, s.Name, s.Description, s.Price, s.Duration, s.Category, s.Requirements, s.Popular)
			if err != nil {
				return fmt.Errorf("insert service %s/%s: %w", c.ID, s.Code, err)
			}
			serviceCount++
		}
	}
	log.Info().Int("countries", len(countries)).Int("services", serviceCount).Msg("inserted catalog")

	for _, d := range destinations {
		_, err := tx.Exec(ctx,
			`INSERT INTO destinations (id, country_id, name, region, summary, cost_of_living, highlights)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			d.ID, d.CountryID, d.Name, d.Region, d.Summary, d.CostOfLiving, d.Highlights)
		if err != nil {
			return fmt.Errorf("insert destination %s: %w", d.ID, err)
		}
	}
	log.Info().Int("count", len(destinations)).Msg("inserted destinations")

	for _, j := range jobSeeds {
		_, err := tx.Exec(ctx,
			`INSERT INTO jobs (title, company, location, country_id, contract_type, salary_range)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			j.Title, j.Company, j.Location, j.CountryID, j.ContractType, j.SalaryRange)
		if err != nil {
			return fmt.Errorf("insert job %q: %w", j.Title, err)
		}
	}
	log.Info().Int("count", len(jobSeeds)).Msg("inserted jobs")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Msg("seed data generation complete")
	return nil
}

// SeedAdminUser bootstraps the first back-office account. A blank password
// disables the bootstrap; an existing email is left untouched.
func SeedAdminUser(ctx context.Context, pool *pgxpool.Pool, email, name, password string) error {
	if password == "" {
		return nil
	}

	var exists bool
	if err := pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO admin_users (email, name, password_hash, role) VALUES ($1, $2, $3, 'super_admin')`,
		email, name, string(hash))
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Info().Str("email", email).Msg("bootstrapped admin user")
	return nil
}
