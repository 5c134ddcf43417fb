package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Rules bundles every threshold and lookup table the preprocessing pipeline
// relies on. A Rules value is treated as read-only once a pipeline is built.
type Rules struct {
	Sanity   SanityRules   `yaml:"sanity"`
	Outliers OutlierRules  `yaml:"outliers"`
	Tables   MappingTables `yaml:"tables"`
}

// SanityRules are fixed plausibility bounds; none is derived from the batch.
type SanityRules struct {
	// Model years later than reference year + MaxYearAhead are rejected.
	MaxYearAhead int `yaml:"max_year_ahead" validate:"min=0"`
	MinYear      int `yaml:"min_year" validate:"min=1886"`

	MinOdometer int `yaml:"min_odometer" validate:"min=0"`
	MaxOdometer int `yaml:"max_odometer" validate:"gtfield=MinOdometer"`

	// Cars older than UsedAgeYears model years must show at least MinUsedOdometer.
	UsedAgeYears    int `yaml:"used_age_years" validate:"min=0"`
	MinUsedOdometer int `yaml:"min_used_odometer" validate:"min=0"`

	// Price bounds are exclusive.
	MinPrice int `yaml:"min_price" validate:"min=0"`
	MaxPrice int `yaml:"max_price" validate:"gtfield=MinPrice"`
}

// OutlierRules drive the per-model IQR filter.
type OutlierRules struct {
	MinGroupSize  int     `yaml:"min_group_size" validate:"min=4"`
	IQRMultiplier float64 `yaml:"iqr_multiplier" validate:"gt=0"`
	// ExemptTrims are high-end variants (model-trim form) that neither shape
	// the bounds nor get rejected by them.
	ExemptTrims []string `yaml:"exempt_trims"`
}

// ContainsRule folds any value containing Substring into Value.
type ContainsRule struct {
	Substring string `yaml:"substring"`
	Value     string `yaml:"value"`
}

// ModelTrim is the corrected model and trim for a mislabelled model name.
type ModelTrim struct {
	Model string `yaml:"model"`
	Trim  string `yaml:"trim"`
}

// TrimHint fills Column with Value when the trim contains Substring.
type TrimHint struct {
	Column    string `yaml:"column" validate:"oneof=drivetrain transmission bodytype"`
	Substring string `yaml:"substring"`
	Value     string `yaml:"value"`
}

// MappingTables are the static string lookups used to normalize and screen rows.
// All keys and values are lowercase.
type MappingTables struct {
	Drivetrain         map[string]string            `yaml:"drivetrain"`
	BodyType           map[string]string            `yaml:"bodytype"`
	BodyTypeContains   []ContainsRule               `yaml:"bodytype_contains"`
	ModelTranslation   []ContainsRule               `yaml:"model_translation"`
	ModelTrim          map[string]ModelTrim         `yaml:"model_trim"`
	MakeModel          map[string]map[string]string `yaml:"make_model"`
	TrimCorrection     map[string]map[string]string `yaml:"trim_correction"`
	TrimHints          []TrimHint                   `yaml:"trim_hints" validate:"dive"`
	TrimTruncateAfter  []string                     `yaml:"trim_truncate_after"`
	TrimStripChars     []string                     `yaml:"trim_strip_chars"`
	InvalidTrims       []string                     `yaml:"invalid_trims"`
	TrimRedFlags       []string                     `yaml:"trim_red_flags"`
	DrivetrainVocab    []string                     `yaml:"drivetrain_vocabulary" validate:"min=1"`
	BodyTypeVocab      []string                     `yaml:"bodytype_vocabulary" validate:"min=1"`
	ProvinceVocab      []string                     `yaml:"province_vocabulary" validate:"min=1"`
	ValidMakes         []string                     `yaml:"valid_makes" validate:"min=1"`
	UnspecifiedModels  []string                     `yaml:"unspecified_models"`
	BlockedDealers     []string                     `yaml:"blocked_dealers"`
	DamageKeywords     []string                     `yaml:"damage_keywords"`
	ManualTransmission []string                     `yaml:"manual_transmission"`
}

// LoadRules overlays the YAML file at path on top of DefaultRules.
// Scalars and lists in the file replace the defaults; maps are merged key by key.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("rules: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("rules: parse %q: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate checks that thresholds are coherent.
func (r Rules) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return fmt.Errorf("rules: invalid: %w", err)
	}
	return nil
}

// DefaultRules returns the thresholds and tables tuned for the Canadian
// used-car listings dataset.
func DefaultRules() Rules {
	return Rules{
		Sanity: SanityRules{
			MaxYearAhead:    1,
			MinYear:         1980,
			MinOdometer:     0,
			MaxOdometer:     290000,
			UsedAgeYears:    2,
			MinUsedOdometer: 1000,
			MinPrice:        3000,
			MaxPrice:        250000,
		},
		Outliers: OutlierRules{
			MinGroupSize:  8,
			IQRMultiplier: 1.5,
			ExemptTrims:   defaultExemptTrims(),
		},
		Tables: defaultTables(),
	}
}

func defaultTables() MappingTables {
	return MappingTables{
		Drivetrain: map[string]string{
			"4x4":               "awd",
			"4wd":               "awd",
			"awd":               "awd",
			"all wheel drive":   "awd",
			"all-wheel drive":   "awd",
			"4 roues motrices":  "awd",
			"integrale":         "awd",
			"2wd":               "fwd",
			"fwd":               "fwd",
			"front wheel drive": "fwd",
			"traction avant":    "fwd",
			"rwd":               "rwd",
			"rear wheel drive":  "rwd",
			"propulsion":        "rwd",
			// Placeholder text from the listing site; treated as missing.
			"not available": "",
		},
		BodyType: map[string]string{
			"sedan":                 "sedan",
			"berline":               "sedan",
			"suv":                   "suv",
			"vus":                   "suv",
			"sport utility":         "suv",
			"coupe":                 "coupe",
			"coupé":                 "coupe",
			"hatchback":             "hatchback",
			"hayon":                 "hatchback",
			"convertible":           "convertible",
			"décapotable":           "convertible",
			"wagon":                 "station wagon",
			"familiale":             "station wagon",
			"station wagon":         "station wagon",
			"minivan":               "minivan",
			"fourgonnette":          "minivan",
			"truck":                 "truck",
			"camion":                "truck",
			"pickup":                "truck",
		},
		BodyTypeContains: []ContainsRule{
			{Substring: "truck", Value: "truck"},
			{Substring: "cab ", Value: "truck"},
			{Substring: " cab", Value: "truck"},
			{Substring: "super crew", Value: "truck"},
			{Substring: "cutaway", Value: "truck"},
			{Substring: "wagon", Value: "station wagon"},
			{Substring: "van", Value: "minivan"},
			{Substring: "cabriolet", Value: "convertible"},
			{Substring: "roadster", Value: "convertible"},
			{Substring: "compact", Value: "hatchback"},
		},
		ModelTranslation: []ContainsRule{
			{Substring: "hybride rechargeable", Value: "plug-in hybrid"},
			{Substring: "hybride", Value: "hybrid"},
			{Substring: "portes", Value: "door"},
			{Substring: "hayon", Value: "hatchback"},
			{Substring: "berline", Value: "sedan"},
			{Substring: "coupé", Value: "coupe"},
			{Substring: "décapotable", Value: "convertible"},
		},
		ModelTrim:      defaultModelTrim(),
		MakeModel:      defaultMakeModel(),
		TrimCorrection: defaultTrimCorrection(),
		TrimHints:      defaultTrimHints(),
		TrimTruncateAfter: []string{
			"|", ",", " - ", " w/", "with", "avec", "~", "(",
		},
		TrimStripChars: []string{
			"!", "*", "/", "+", "~", "<", ">", "\"", "®", "™", "\\", ";", "&",
		},
		InvalidTrims: []string{
			"nan", "-", "&", "|", ".", "low", "no", "w", "*", "#", "%", "(",
			"sedan", "cpe", "premium package", "manual", "wgn", "360", "air", "bm", "bt", "mt", "i",
			"premium essential", "prem pkg", "1 owner", "one owner", "1", "2", "3", "4", "5", "h",
			"accident free", "headup display", "premium", "clean", "system", "lo",
			"-free", "et", "en", "doors", "car", "pre", "vehicle", "sun", "range",
			"bluetooth", "sky view roof", "leather", "loaded", "incoming", "at", "and",
			"hatchback", "série de bm",
		},
		TrimRedFlags: []string{
			"low kilometers", "low kilometres", "familiale", "manuelle", "certified", "delivered",
			"excellent", "automatique", "apple", "local", "camera", "nouvel", "backup", "extra",
			"pano", "panoramic", "remote", "rear", "recent", "incoming", "modèle", "nav", "commodité",
			"just", "arrived", "arrival", "sold", "ensemble", "vdpurlen", "édition", "cuir", "navi", "panoroof",
			"toit", "only", "power", "ac", "carfax", "clean", "owner", "accident", "finance",
			"financement", "mois", "commodités", "certification", "credit", "approval", "avec", "aucun",
			"bluetooth", "headup", "owned", "delivery", "deal", "hurry", "chauff", "arrivage",
			"navigat", "jamais", "heated", "seats", "moonroof", "angles", "leather", "rapporte", "garantie",
			"recul", "vitesse", "interieur", "located", "touchscreen", "sale", "volant", "chauf",
			"ans inclus", ".rec", "morts", "#", "%",
		},
		DrivetrainVocab: []string{"awd", "fwd", "rwd"},
		BodyTypeVocab: []string{
			"sedan", "suv", "truck", "coupe", "convertible", "hatchback", "minivan", "station wagon",
		},
		ProvinceVocab: []string{"ontario", "quebec"},
		ValidMakes: []string{
			"audi", "bmw", "mercedes-benz", "cadillac", "chevrolet", "ford", "chrysler", "dodge", "fiat", "gmc",
			"honda", "hyundai", "infiniti", "jaguar", "jeep", "kia", "land rover", "lexus", "lincoln", "mazda",
			"ram", "mini", "mitsubishi", "nissan", "porsche", "subaru", "tesla", "toyota", "volkswagen", "volvo",
		},
		UnspecifiedModels: []string{"other/unspecified", "s?lectionner", "sélectionner"},
		BlockedDealers: []string{
			"first choice auto salvage",
			"vaughan fine touch auto collision inc.",
			"m.e.m auto clinic inc.",
			"luckydog motors",
		},
		DamageKeywords: []string{
			"rebuilt", "reconstruit", "salvage", "récupération", "recuperation", "damaged",
			"véhicule accidenté", "transmission needs repair", "may need repair",
		},
		ManualTransmission: []string{"manual", "manuelle", "manuel", "6mt"},
	}
}

func defaultModelTrim() map[string]ModelTrim {
	return map[string]ModelTrim{
		// BMW
		"128i":           {Model: "1 series", Trim: "128i"},
		"230":            {Model: "2 series", Trim: "230i"},
		"230i xdrive":    {Model: "2 series", Trim: "230i xdrive"},
		"228i":           {Model: "2 series", Trim: "228i"},
		"330i":           {Model: "3 series", Trim: "330i"},
		"340":            {Model: "3 series", Trim: "340i"},
		"340i xdrive":    {Model: "3 series", Trim: "340i xdrive"},
		"320i":           {Model: "3 series", Trim: "320i"},
		"328":            {Model: "3 series", Trim: "328i"},
		"328i":           {Model: "3 series", Trim: "328i"},
		"328i xdrive":    {Model: "3 series", Trim: "328i xdrive"},
		"328d":           {Model: "3 series", Trim: "328d"},
		"335i":           {Model: "3 series", Trim: "335i"},
		"330i xdrive":    {Model: "3 series", Trim: "330i xdrive"},
		"428i":           {Model: "4 series", Trim: "428i"},
		"440":            {Model: "4 series", Trim: "440i"},
		"440 gran coupe": {Model: "4 series", Trim: "440i gran coupe"},
		"435i":           {Model: "4 series", Trim: "435i"},
		"430i xdrive":    {Model: "4 series", Trim: "430i xdrive"},
		"435i xdrive":    {Model: "4 series", Trim: "435i xdrive"},
		"440i xdrive":    {Model: "4 series", Trim: "440i xdrive"},
		"528i":           {Model: "5 series", Trim: "528i"},
		"540":            {Model: "5 series", Trim: "540i"},
		"530e":           {Model: "5 series", Trim: "530e"},
		"528i xdrive":    {Model: "5 series", Trim: "528i xdrive"},
		"530i xdrive":    {Model: "5 series", Trim: "530i xdrive"},
		"530":            {Model: "5 series", Trim: "530i"},
		"530i":           {Model: "5 series", Trim: "530i"},
		"540i":           {Model: "5 series", Trim: "540i"},
		"750i":           {Model: "7 series", Trim: "750i"},
		// Mercedes-Benz
		"glc300":      {Model: "glc-class", Trim: "glc300"},
		"c300":        {Model: "c-class", Trim: "c300"},
		"gla250":      {Model: "gla-class", Trim: "gla250"},
		"cla250":      {Model: "cla-class", Trim: "cla250"},
		"gle350":      {Model: "gle-class", Trim: "gle350"},
		"a250":        {Model: "a-class", Trim: "a250"},
		"a220":        {Model: "a-class", Trim: "a220"},
		"gle400":      {Model: "gle-class", Trim: "gle400"},
		"gle450":      {Model: "gle-class", Trim: "gle450"},
		"gls450":      {Model: "gls-class", Trim: "gls450"},
		"e450":        {Model: "e-class", Trim: "e450"},
		"b250":        {Model: "b-class", Trim: "b250"},
		"e400":        {Model: "e-class", Trim: "e400"},
		"s560":        {Model: "s-class", Trim: "s560"},
		"e300":        {Model: "e-class", Trim: "e300"},
		"glb250":      {Model: "glb-class", Trim: "glb250"},
		"e350":        {Model: "e-class", Trim: "e350"},
		"glk250":      {Model: "glk-class", Trim: "glk250"},
		"glk350":      {Model: "glk-class", Trim: "glk350"},
		"ml350":       {Model: "ml-class", Trim: "ml350"},
		"s580":        {Model: "s-class", Trim: "s580"},
		"s550":        {Model: "s-class", Trim: "s550"},
		"g550":        {Model: "g-class", Trim: "g550"},
		"gls580":      {Model: "gls-class", Trim: "gls580"},
		"cls450":      {Model: "cls-class", Trim: "cls450"},
		"c300 4matic": {Model: "c-class", Trim: "c300 4matic"},
		// Tesla
		"model 3 standard plus": {Model: "model 3", Trim: "standard range plus"},
		"model 3 long range":    {Model: "model 3", Trim: "long range"},
		"model y long range":    {Model: "model y", Trim: "long range"},
		"model x long range":    {Model: "model x", Trim: "long range"},
	}
}

func defaultMakeModel() map[string]map[string]string {
	return map[string]map[string]string{
		"bmw": {
			"2-series": "2 series",
			"4-series": "4 series",
		},
		"mercedes-benz": {
			"gla":        "gla-class",
			"glb":        "glb-class",
			"glc":        "glc-class",
			"gle":        "gle-class",
			"gls":        "gls-class",
			"cla":        "cla-class",
			"cls":        "cls-class",
			"amg gle 43": "gle43 amg",
			"amg glc 43": "glc43 amg",
			"amg gla 45": "gla45 amg",
			"amg cla 45": "cla45 amg",
			"amg e 63":   "e63 amg",
			"amg c 63":   "c63 amg",
		},
		"kia": {
			"forte5":              "forte",
			"forte 5-door":        "forte",
			"rio5":                "rio",
			"rio 5-door":          "rio",
			"niro plug in hybrid": "niro plug-in hybrid",
			"niro phev":           "niro plug-in hybrid",
		},
		"chevrolet": {
			"2500":              "silverado 2500",
			"1500":              "silverado 1500",
			"silverado":         "silverado 1500",
			"3500":              "silverado 3500",
			"avalanche 1500":    "avalanche",
			"bolt ev":           "bolt",
			"corvette stingray": "corvette",
		},
		"chrysler": {
			"300c": "300",
			"300s": "300",
		},
		"ford": {
			"cargo":       "other/unspecified",
			"convertible": "other/unspecified",
			"fourgon":     "transit cargo van",
		},
		"audi": {
			"a3 cabriolet":          "a3",
			"a3 sportback":          "a3",
			"a3 berline":            "a3",
			"a3 sedan":              "a3",
			"a4 allroad":            "a4",
			"sedan a4":              "a4",
			"a4 quattro progressiv": "a4",
			"berline a4":            "a4",
			"a5 sportback":          "a5",
			"a5 cabriolet":          "a5",
			"a5 coupe":              "a5",
			"a6 3.0t quattro":       "a6",
			"a6 allroad":            "a6",
			"a7 sportback":          "a7",
			"s3 sedan":              "s3",
			"s5 sportback":          "s5",
			"s5 coupe":              "s5",
			"s5 cabriolet":          "s5",
			"s6 sedan":              "s6",
			"rs 3 sedan":            "rs3",
			"rs 5 sportback":        "rs5",
			"rs 5 coupe":            "rs5",
			"rs 6 avant":            "rs6",
			"rs 7 sportback":        "rs 7",
			"tt coupe":              "tt",
			"tts coupe":             "tts",
			"tt rs coupe":           "tt rs",
			"r8 coupe":              "r8",
			"q5 sportback":          "q5",
			"q7 technik":            "q7",
			"sq5 sportback":         "sq5",
		},
		"dodge": {
			"ram":      "other/unspecified",
			"ram 1500": "other/unspecified",
		},
		"gmc": {
			"sierra":                       "sierra 1500",
			"1500":                         "sierra 1500",
			"2500":                         "sierra 2500",
			"3500":                         "sierra 3500",
			"sierra 1500 pickup":           "sierra 1500",
			"new sierra 1500 crew cab 4x4": "sierra 1500",
		},
		"porsche": {
			"718 cayman":  "cayman",
			"718 boxster": "boxster",
		},
		"ram": {
			"promaster fourgonnette utilitaire": "promaster cargo van",
			"silverado 1500":                    "1500",
			"1500 classic":                      "1500",
			"silverado 2500":                    "2500",
			"silverado 3500":                    "3500",
			"1500 crew cab":                     "1500",
			"1500 quad cab":                     "1500",
			"promaster city wagon":              "promaster city",
		},
		"mini": {
			"cooper hardtop":     "cooper 3 door",
			"cooper coupe":       "cooper 3 door",
			"hatchback":          "cooper 3 door",
			"cooper":             "cooper 3 door",
			"3 door":             "cooper 3 door",
			"coupe":              "cooper 3 door",
			"5 door":             "cooper 5 door",
			"cooper convertible": "cooper roadster",
			"cabriolet":          "cooper roadster",
			"convertible":        "cooper roadster",
			"countryman":         "cooper countryman",
		},
		"subaru": {
			"sti":             "wrx sti",
			"impreza wrx":     "wrx",
			"impreza wrx sti": "wrx sti",
		},
		"tesla": {
			"model s standard plus": "model s",
		},
	}
}

func defaultTrimCorrection() map[string]map[string]string {
	return map[string]map[string]string{
		"bmw": {
			"competition coupe m": "competition m coupe",
			"m-sport":             "m sport",
			"msport":              "m sport",
			"m competition":       "competition m",
		},
		"gmc": {
			"reg": "regular",
			"cre": "crew cab",
		},
		"mazda": {
			"gt wturbo":    "gt turbo",
			"gt w-turbo":   "gt turbo",
			"gs-sky":       "gs",
			"sport gs-sky": "sport gs",
			"gt-sky":       "gt",
			"gx-sky":       "gx",
			"gtawd":        "gt",
			"conv gt":      "gt convertible",
		},
	}
}

func defaultTrimHints() []TrimHint {
	return []TrimHint{
		{Column: "bodytype", Substring: "sedan", Value: "sedan"},
		{Column: "bodytype", Substring: "coupe", Value: "coupe"},
		{Column: "bodytype", Substring: "hatchback", Value: "hatchback"},
		{Column: "bodytype", Substring: "hatch", Value: "hatchback"},
		{Column: "bodytype", Substring: "hayon", Value: "hatchback"},
		{Column: "bodytype", Substring: "2 portes", Value: "coupe"},
		{Column: "bodytype", Substring: "convertible", Value: "convertible"},
		{Column: "bodytype", Substring: "cabriolet", Value: "convertible"},
		{Column: "drivetrain", Substring: "4 roues motrices", Value: "awd"},
		{Column: "drivetrain", Substring: "all wheel drive", Value: "awd"},
		{Column: "drivetrain", Substring: "quattro", Value: "awd"},
		{Column: "drivetrain", Substring: "4matic", Value: "awd"},
		{Column: "drivetrain", Substring: "4 matic", Value: "awd"},
		{Column: "drivetrain", Substring: "awd", Value: "awd"},
		{Column: "drivetrain", Substring: "4wd", Value: "awd"},
		{Column: "drivetrain", Substring: "dual motor", Value: "awd"},
		{Column: "drivetrain", Substring: "4x4", Value: "awd"},
		{Column: "drivetrain", Substring: "all4", Value: "awd"},
		{Column: "drivetrain", Substring: "xdrive", Value: "awd"},
		{Column: "drivetrain", Substring: "4motion", Value: "awd"},
		{Column: "drivetrain", Substring: "traction intégrale", Value: "awd"},
		{Column: "drivetrain", Substring: "2wd", Value: "fwd"},
		{Column: "drivetrain", Substring: "2rm", Value: "fwd"},
		{Column: "drivetrain", Substring: "fwd", Value: "fwd"},
		{Column: "drivetrain", Substring: "rwd", Value: "rwd"},
		{Column: "transmission", Substring: "6mt", Value: "manual"},
		{Column: "transmission", Substring: "manuelle", Value: "manual"},
		{Column: "transmission", Substring: "manual", Value: "manual"},
		{Column: "transmission", Substring: "cvt", Value: "automatic"},
		{Column: "transmission", Substring: "dct", Value: "automatic"},
		{Column: "transmission", Substring: "pdk", Value: "automatic"},
		{Column: "transmission", Substring: "dsg", Value: "automatic"},
		{Column: "transmission", Substring: "tiptronic", Value: "automatic"},
	}
}

func defaultExemptTrims() []string {
	return []string{
		"3 series-m340i", "x3-m40i",
		"camaro-2ss", "camaro-zl1", "camaro-ss", "corvette-z06",
		"durango-srt", "charger-srt", "charger-rt", "charger-scat", "challenger-srt", "challenger-scat",
		"f-150-raptor", "focus-rs", "mustang-shelby", "f-150-limited", "f-150-platinum",
		"sierra 1500-denali", "q50-red",
		"grand cherokee-srt", "wrangler-unlimited", "wrangler-rubicon",
		"range rover sport-svr", "range rover sport-v8", "range rover sport-autobiography",
		"range rover evoque-hse", "range rover-autobiography",
		"cx-3-gt",
		"a-class-amg", "s-class-amg",
		"c-class-c43", "c-class-c63", "c-class-c63s", "c-class-amg", "cla-class-amg", "e-class-amg",
		"gla-class-amg", "glc-class-amg", "gle-class-amg", "gle-class-gle43", "s-class-maybach", "s-class-s63",
		"silverado 1500-trx", "impreza-wrx", "rav4-hybrid", "corolla-hybrid", "jetta-gli", "xc60-t8",
		"cooper 3 door-john cooper works", "cooper clubman-john cooper works",
		"cooper countryman-john cooper works", "cooper roadster-john cooper works",
		"911-gt3 rs", "911-turbo s convertible", "911-turbo", "911-turbo s", "911-gt3", "911-targa 4 gts",
		"cayman-gt4", "cayman-gts", "boxster-spyder", "boxster-gts 4.0", "boxster-gts",
		"macan-gts", "macan-turbo",
		"cayenne-turbo s", "cayenne-turbo gt", "cayenne-turbo", "cayenne-e-hybrid", "cayenne-gts",
		"panamera-gts", "panamera-turbo", "panamera-turbo s", "taycan-turbo s", "taycan-gts",
	}
}
