package currency

// catalog lists the currencies offered in settings, in display order.
var catalog = []entry{
	{"DZD", "د.ج", "Algeria – Algerian dinar (DZD)"},
	{"AOA", "Kz", "Angola – Kwanza (AOA)"},
	{"XOF", "CFA", "Benin – West African CFA franc (XOF)"},
	{"BWP", "P", "Botswana – Pula (BWP)"},
	{"BIF", "FBu", "Burundi – Burundian franc (BIF)"},
	{"CVE", "Esc", "Cabo Verde – Cabo Verdean escudo (CVE)"},
	{"XAF", "CFA", "Cameroon – Central African CFA franc (XAF)"},
	{"KMF", "CF", "Comoros – Comorian franc (KMF)"},
	{"CDF", "FC", "Congo (DRC) – Congolese franc (CDF)"},
	{"DJF", "Fdj", "Djibouti – Djiboutian franc (DJF)"},
	{"EGP", "£", "Egypt – Egyptian pound (EGP)"},
	{"ERN", "Nfk", "Eritrea – Nakfa (ERN)"},
	{"SZL", "L", "Eswatini – Lilangeni (SZL)"},
	{"ETB", "Br", "Ethiopia – Birr (ETB)"},
	{"GMD", "D", "Gambia – Dalasi (GMD)"},
	{"GHS", "₵", "Ghana – Ghanaian cedi (GHS)"},
	{"GNF", "FG", "Guinea – Guinean franc (GNF)"},
	{"KES", "Ksh", "Kenya – Kenyan shilling (KES)"},
	{"LSL", "L", "Lesotho – Loti (LSL)"},
	{"LRD", "$", "Liberia – Liberian dollar (LRD)"},
	{"LYD", "ل.د", "Libya – Libyan dinar (LYD)"},
	{"MGA", "Ar", "Madagascar – Malagasy ariary (MGA)"},
	{"MWK", "MK", "Malawi – Malawian kwacha (MWK)"},
	{"MRU", "UM", "Mauritania – Ouguiya (MRU)"},
	{"MUR", "₨", "Mauritius – Mauritian rupee (MUR)"},
	{"MAD", "د.م", "Morocco – Moroccan dirham (MAD)"},
	{"MZN", "MT", "Mozambique – Metical (MZN)"},
	{"NAD", "$", "Namibia – Namibian dollar (NAD)"},
	{"NGN", "₦", "Nigeria – Naira (NGN)"},
	{"RWF", "FRw", "Rwanda – Rwandan franc (RWF)"},
	{"STN", "Db", "São Tomé and Príncipe – Dobra (STN)"},
	{"SCR", "₨", "Seychelles – Seychelles rupee (SCR)"},
	{"SLE", "Le", "Sierra Leone – Leone (SLE)"},
	{"SOS", "Sh", "Somalia – Somali shilling (SOS)"},
	{"ZAR", "R", "South Africa – Rand (ZAR)"},
	{"SSP", "£", "South Sudan – South Sudanese pound (SSP)"},
	{"SDG", "£", "Sudan – Sudanese pound (SDG)"},
	{"TZS", "Sh", "Tanzania – Tanzanian shilling (TZS)"},
	{"TND", "د.ت", "Tunisia – Tunisian dinar (TND)"},
	{"UGX", "USh", "Uganda – Ugandan shilling (UGX)"},
	{"ZMW", "ZK", "Zambia – Zambian kwacha (ZMW)"},
	{"ZWL", "Z$", "Zimbabwe – Zimbabwean dollar (ZWL)"},
	{"XCD", "$", "East Caribbean dollar (XCD)"},
	{"ARS", "$", "Argentina – Argentine peso (ARS)"},
	{"BSD", "$", "Bahamas – Bahamian dollar (BSD)"},
	{"BBD", "Bds$", "Barbados – Barbadian dollar (BBD)"},
	{"BZD", "BZ$", "Belize – Belize dollar (BZD)"},
	{"BOB", "Bs", "Bolivia – Boliviano (BOB)"},
	{"BRL", "R$", "Brazil – Brazilian real (BRL)"},
	{"CAD", "C$", "Canada – Canadian dollar (CAD)"},
	{"CLP", "$", "Chile – Chilean peso (CLP)"},
	{"COP", "$", "Colombia – Colombian peso (COP)"},
	{"CRC", "₡", "Costa Rica – Costa Rican colón (CRC)"},
	{"CUP", "$", "Cuba – Cuban peso (CUP)"},
	{"DOP", "RD$", "Dominican Republic – Dominican peso (DOP)"},
	{"USD", "$", "US dollar (USD)"},
	{"GTQ", "Q", "Guatemala – Quetzal (GTQ)"},
	{"GYD", "$", "Guyana – Guyanese dollar (GYD)"},
	{"HTG", "G", "Haiti – Gourde (HTG)"},
	{"HNL", "L", "Honduras – Lempira (HNL)"},
	{"JMD", "J$", "Jamaica – Jamaican dollar (JMD)"},
	{"MXN", "$", "Mexico – Mexican peso (MXN)"},
	{"NIO", "C$", "Nicaragua – Córdoba (NIO)"},
	{"PAB", "B/.", "Panama – Balboa (PAB)"},
	{"PYG", "₲", "Paraguay – Guaraní (PYG)"},
	{"PEN", "S/.", "Peru – Sol (PEN)"},
	{"SRD", "$", "Suriname – Surinamese dollar (SRD)"},
	{"TTD", "TT$", "Trinidad and Tobago – Dollar (TTD)"},
	{"UYU", "$U", "Uruguay – Uruguayan peso (UYU)"},
	{"VES", "Bs", "Venezuela – Bolívar (VES)"},
	{"AFN", "؋", "Afghanistan – Afghani (AFN)"},
	{"AMD", "֏", "Armenia – Dram (AMD)"},
	{"AZN", "₼", "Azerbaijan – Manat (AZN)"},
	{"BHD", "ب.د", "Bahrain – Bahraini dinar (BHD)"},
	{"BDT", "৳", "Bangladesh – Taka (BDT)"},
	{"BTN", "Nu.", "Bhutan – Ngultrum (BTN)"},
	{"BND", "B$", "Brunei – Brunei dollar (BND)"},
	{"KHR", "៛", "Cambodia – Riel (KHR)"},
	{"CNY", "¥", "China – Renminbi yuan (CNY)"},
	{"GEL", "₾", "Georgia – Lari (GEL)"},
	{"INR", "₹", "India – Indian rupee (INR)"},
	{"IDR", "Rp", "Indonesia – Rupiah (IDR)"},
	{"IRR", "﷼", "Iran – Iranian rial (IRR)"},
	{"IQD", "ع.د", "Iraq – Iraqi dinar (IQD)"},
	{"ILS", "₪", "Israel – New shekel (ILS)"},
	{"JPY", "¥", "Japan – Yen (JPY)"},
	{"JOD", "د.أ", "Jordan – Jordanian dinar (JOD)"},
	{"KZT", "₸", "Kazakhstan – Tenge (KZT)"},
	{"KWD", "د.ك", "Kuwait – Kuwaiti dinar (KWD)"},
	{"KGS", "с", "Kyrgyzstan – Som (KGS)"},
	{"LAK", "₭", "Laos – Kip (LAK)"},
	{"LBP", "ل.ل", "Lebanon – Lebanese pound (LBP)"},
	{"MYR", "RM", "Malaysia – Ringgit (MYR)"},
	{"MVR", "Rf", "Maldives – Rufiyaa (MVR)"},
	{"MNT", "₮", "Mongolia – Tögrög (MNT)"},
	{"MMK", "K", "Myanmar – Kyat (MMK)"},
	{"NPR", "₨", "Nepal – Nepalese rupee (NPR)"},
	{"KPW", "₩", "North Korea – Won (KPW)"},
	{"OMR", "ر.ع", "Oman – Omani rial (OMR)"},
	{"PKR", "₨", "Pakistan – Pakistani rupee (PKR)"},
	{"PHP", "₱", "Philippines – Peso (PHP)"},
	{"QAR", "ر.ق", "Qatar – Qatari riyal (QAR)"},
	{"SAR", "ر.س", "Saudi Arabia – Riyal (SAR)"},
	{"SGD", "S$", "Singapore – Singapore dollar (SGD)"},
	{"KRW", "₩", "South Korea – Won (KRW)"},
	{"LKR", "රු", "Sri Lanka – Rupee (LKR)"},
	{"SYP", "£", "Syria – Syrian pound (SYP)"},
	{"TWD", "NT$", "Taiwan – New Taiwan dollar (TWD)"},
	{"TJS", "SM", "Tajikistan – Somoni (TJS)"},
	{"THB", "฿", "Thailand – Baht (THB)"},
	{"TRY", "₺", "Turkey – Turkish lira (TRY)"},
	{"TMT", "m", "Turkmenistan – Manat (TMT)"},
	{"AED", "د.إ", "UAE – Dirham (AED)"},
	{"UZS", "so'm", "Uzbekistan – Soʻm (UZS)"},
	{"VND", "₫", "Vietnam – Đồng (VND)"},
	{"YER", "﷼", "Yemen – Rial (YER)"},
	{"EUR", "€", "Eurozone – Euro (EUR)"},
	{"ALL", "L", "Albania – Lek (ALL)"},
	{"BYN", "Br", "Belarus – Belarusian ruble (BYN)"},
	{"BAM", "KM", "Bosnia and Herzegovina – Convertible mark (BAM)"},
	{"BGN", "лв", "Bulgaria – Lev (BGN)"},
	{"CZK", "Kč", "Czech Republic – Koruna (CZK)"},
	{"DKK", "kr", "Denmark – Krone (DKK)"},
	{"HUF", "Ft", "Hungary – Forint (HUF)"},
	{"ISK", "kr", "Iceland – Króna (ISK)"},
	{"MDL", "L", "Moldova – Leu (MDL)"},
	{"MKD", "ден", "North Macedonia – Denar (MKD)"},
	{"NOK", "kr", "Norway – Krone (NOK)"},
	{"PLN", "zł", "Poland – Złoty (PLN)"},
	{"RON", "lei", "Romania – Leu (RON)"},
	{"RUB", "₽", "Russia – Ruble (RUB)"},
	{"RSD", "дин.", "Serbia – Serbian dinar (RSD)"},
	{"SEK", "kr", "Sweden – Krona (SEK)"},
	{"CHF", "Fr", "Switzerland – Swiss franc (CHF)"},
	{"UAH", "₴", "Ukraine – Hryvnia (UAH)"},
	{"GBP", "£", "United Kingdom – Pound sterling (GBP)"},
	{"AUD", "A$", "Australia – Australian dollar (AUD)"},
	{"FJD", "$", "Fiji – Fiji dollar (FJD)"},
	{"NZD", "NZ$", "New Zealand – New Zealand dollar (NZD)"},
	{"PGK", "K", "Papua New Guinea – Kina (PGK)"},
	{"SBD", "$", "Solomon Islands – Dollar (SBD)"},
	{"WST", "T", "Samoa – Tala (WST)"},
	{"TOP", "T$", "Tonga – Paʻanga (TOP)"},
	{"VUV", "Vt", "Vanuatu – Vatu (VUV)"},
}
