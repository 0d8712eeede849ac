package urlfilter

// BlockedDomains is the built-in denylist: price comparison and cashback
// sites, marketplaces, coupon aggregators, social networks, and news
// outlets. None of these host a first-party product page worth returning.
var BlockedDomains = []string{
	// Price comparison / aggregators
	"pricerunner.com",
	"pricerunner.co.uk",
	"kelkoo.co.uk",
	"kelkoo.com",
	"idealo.co.uk",
	"idealo.com",
	"pricespy.co.uk",
	"trolley.co.uk",
	"price.com",
	"pricechecker.co.uk",
	"pricehistory.co.uk",
	"comparethemarket.com",
	"moneysupermarket.com",
	"gocompare.com",
	"confused.com",
	"uswitch.com",
	"money.co.uk",
	"shopzilla.co.uk",
	"shopping.com",
	"pricegrabber.com",
	"bizrate.com",
	"nextag.com",
	"twenga.co.uk",
	"lyst.co.uk",
	"lyst.com",
	"shopstyle.co.uk",
	"pricepanda.co.uk",
	"alertr.co.uk",
	"camelcamelcamel.com",
	"keepa.com",
	"skinflint.co.uk",
	"geizhals.eu",

	// Cashback / vouchers / coupons
	"topcashback.co.uk",
	"quidco.com",
	"vouchercodes.co.uk",
	"myvouchercodes.co.uk",
	"groupon.co.uk",
	"groupon.com",
	"wowcher.co.uk",
	"hotukdeals.com",
	"latestdeals.co.uk",
	"dealabs.com",
	"retailmenot.com",
	"savoo.co.uk",
	"discountcode.dailymail.co.uk",
	"coupons.com",
	"honey.com",
	"picodi.com",

	// Marketplaces / resale
	"amazon.co.uk",
	"amazon.com",
	"ebay.co.uk",
	"ebay.com",
	"etsy.com",
	"onbuy.com",
	"aliexpress.com",
	"alibaba.com",
	"wish.com",
	"temu.com",
	"shein.co.uk",
	"shein.com",
	"vinted.co.uk",
	"depop.com",
	"gumtree.com",
	"facebook.com",
	"marketplace.facebook.com",
	"shpock.com",
	"preloved.co.uk",
	"fruugo.co.uk",
	"manomano.co.uk",
	"notonthehighstreet.com",

	// Social / video / forums
	"instagram.com",
	"twitter.com",
	"x.com",
	"tiktok.com",
	"youtube.com",
	"pinterest.com",
	"pinterest.co.uk",
	"reddit.com",
	"linkedin.com",
	"threads.net",
	"snapchat.com",
	"tumblr.com",
	"quora.com",
	"mumsnet.com",
	"netmums.com",
	"moneysavingexpert.com",

	// News / editorial / reviews
	"theguardian.com",
	"telegraph.co.uk",
	"independent.co.uk",
	"dailymail.co.uk",
	"mirror.co.uk",
	"thesun.co.uk",
	"express.co.uk",
	"metro.co.uk",
	"bbc.co.uk",
	"bbc.com",
	"standard.co.uk",
	"which.co.uk",
	"goodhousekeeping.com",
	"cosmopolitan.com",
	"marieclaire.co.uk",
	"glamourmagazine.co.uk",
	"vogue.co.uk",
	"techradar.com",
	"trustedreviews.com",
	"expertreviews.co.uk",
	"t3.com",
	"wired.co.uk",
	"mashable.com",
	"buzzfeed.com",
	"huffingtonpost.co.uk",

	// Encyclopedias / misc. non-retail
	"wikipedia.org",
	"wikihow.com",
	"trustpilot.com",
	"reviews.io",
	"feefo.com",
	"medium.com",
	"blogspot.com",
	"wordpress.com",
}
